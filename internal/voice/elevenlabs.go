// internal/voice/elevenlabs.go

// Package voice wraps the ElevenLabs text-to-speech API.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/propreach/outreach-backend/internal/apperrors"
	"github.com/propreach/outreach-backend/internal/config"
)

const (
	defaultStability       = 0.5
	defaultSimilarityBoost = 0.75
)

// Client is an explicitly constructed ElevenLabs API client.
type Client struct {
	apiKey         string
	baseURL        string
	defaultVoiceID string
	model          string
	httpClient     *http.Client
}

// Voice is one entry from the voices listing.
type Voice struct {
	VoiceID string `json:"voice_id"`
	Name    string `json:"name"`
}

// NewClient builds a TTS client from config.
func NewClient(cfg config.ElevenLabsConfig) *Client {
	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		defaultVoiceID: cfg.DefaultVoiceID,
		model:          cfg.DefaultModel,
		httpClient:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Generate synthesizes text to MPEG audio. voiceID falls back to the
// configured default when empty.
func (c *Client) Generate(ctx context.Context, text, voiceID string) ([]byte, error) {
	if !c.Configured() {
		return nil, apperrors.New(apperrors.KindProviderUnconfigured,
			"ELEVENLABS_API_KEY is not configured")
	}
	if voiceID == "" {
		voiceID = c.defaultVoiceID
	}

	payload, _ := json.Marshal(map[string]any{
		"text":     text,
		"model_id": c.model,
		"voice_settings": map[string]float64{
			"stability":        defaultStability,
			"similarity_boost": defaultSimilarityBoost,
		},
	})

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderRejected, "failed to generate voice", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Newf(apperrors.KindProviderRejected,
			"failed to generate voice: %s", apiErrorDetail(resp))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderRejected, "failed to read audio response", err)
	}
	return audio, nil
}

// Voices lists the voices available to the account.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	if !c.Configured() {
		return nil, apperrors.New(apperrors.KindProviderUnconfigured,
			"ELEVENLABS_API_KEY is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderRejected, "failed to fetch voices", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Newf(apperrors.KindProviderRejected,
			"failed to fetch voices: %s", apiErrorDetail(resp))
	}

	var listing struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderRejected, "invalid voices response", err)
	}
	return listing.Voices, nil
}

// apiErrorDetail pulls the nested detail message ElevenLabs returns, falling
// back to the raw body.
func apiErrorDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed struct {
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail.Message != "" {
		return parsed.Detail.Message
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, string(body))
}
