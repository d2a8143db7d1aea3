// internal/video/heygen.go

// Package video wraps the HeyGen avatar-video generation API and the
// BombBomb video-email API.
package video

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
	"github.com/propreach/outreach-backend/internal/jobs"
)

// HeyGenClient talks to the HeyGen v2 generate endpoint and v1 status
// endpoint.
type HeyGenClient struct {
	apiKey      string
	avatarID    string
	voiceID     string
	generateURL string
	statusURL   string
	httpClient  *http.Client
}

// NewHeyGenClient builds a video generation client from config.
func NewHeyGenClient(cfg config.HeyGenConfig) *HeyGenClient {
	return &HeyGenClient{
		apiKey:      cfg.APIKey,
		avatarID:    cfg.AvatarID,
		voiceID:     cfg.VoiceID,
		generateURL: strings.TrimSuffix(cfg.GenerateURL, "/"),
		statusURL:   strings.TrimSuffix(cfg.StatusURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether key, avatar, and voice are all present.
func (c *HeyGenClient) Configured() bool {
	return c.apiKey != "" && c.avatarID != "" && c.voiceID != ""
}

// GenerationJob adapts a single script to the jobs.Job interface.
type GenerationJob struct {
	Client *HeyGenClient
	Text   string
}

func (j *GenerationJob) Submit(ctx context.Context) (string, error) {
	return j.Client.Submit(ctx, j.Text)
}

func (j *GenerationJob) Status(ctx context.Context, id string) (*jobs.Status, error) {
	return j.Client.Status(ctx, id)
}

// Submit creates a talking-photo generation task and returns its video ID.
func (c *HeyGenClient) Submit(ctx context.Context, text string) (string, error) {
	if !c.Configured() {
		return "", apperrors.New(apperrors.KindProviderUnconfigured,
			"HeyGen configuration is incomplete. Please check environment variables.")
	}

	payload, _ := json.Marshal(map[string]any{
		"caption": "false",
		"video_inputs": []map[string]any{{
			"character": map[string]any{
				"type":             "talking_photo",
				"scale":            1,
				"avatar_style":     "normal",
				"talking_style":    "stable",
				"talking_photo_id": c.avatarID,
			},
			"voice": map[string]any{
				"type":       "text",
				"speed":      "1",
				"pitch":      "0",
				"duration":   "1",
				"voice_id":   c.voiceID,
				"input_text": text,
			},
			"background": map[string]any{
				"type": "color", "value": "#FFFFFF", "play_style": "freeze", "fit": "cover",
			},
			"text": map[string]any{"type": "text", "text": "", "line_height": "1.2"},
		}},
		"dimension": map[string]int{"width": 560, "height": 720},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.generateURL+"/video/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindProviderRejected, "HeyGen API unreachable", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.Newf(apperrors.KindProviderRejected,
			"HeyGen generate failed (%d): %s", resp.StatusCode, heygenErrorDetail(body))
	}

	var parsed struct {
		Data struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Data.VideoID == "" {
		return "", apperrors.New(apperrors.KindSubmissionRejected,
			"failed to create video generation task: no task ID returned")
	}
	return parsed.Data.VideoID, nil
}

// Status queries the v1 status endpoint for a submitted video.
func (c *HeyGenClient) Status(ctx context.Context, videoID string) (*jobs.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/video_status.get?video_id=%s", c.statusURL, videoID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderRejected, "status poll failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A 404 here usually means the job is not indexed yet; the poller
		// treats any status error as transient.
		return nil, apperrors.Newf(apperrors.KindProviderRejected,
			"status poll returned %d", resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			Status   string `json:"status"`
			VideoURL string `json:"video_url"`
			Error    string `json:"error"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderRejected, "invalid status response", err)
	}
	if parsed.Data.Status == "" {
		return &jobs.Status{State: jobs.StatePending}, nil
	}
	return &jobs.Status{
		State:     parsed.Data.Status,
		ResultURL: parsed.Data.VideoURL,
		Detail:    parsed.Data.Error,
	}, nil
}

func heygenErrorDetail(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}
