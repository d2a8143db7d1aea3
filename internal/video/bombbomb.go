// internal/video/bombbomb.go
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/propreach/outreach-backend/internal/apperrors"
	"github.com/propreach/outreach-backend/internal/config"
)

// BombBombClient sends video emails through the BombBomb API.
type BombBombClient struct {
	apiKey     string
	userEmail  string
	baseURL    string
	httpClient *http.Client
}

// NewBombBombClient builds a video-email client from config.
func NewBombBombClient(cfg config.BombBombConfig) *BombBombClient {
	return &BombBombClient{
		apiKey:     cfg.APIKey,
		userEmail:  cfg.UserEmail,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether API key and user email are present.
func (c *BombBombClient) Configured() bool {
	return c.apiKey != "" && c.userEmail != ""
}

// SendVideoEmail sends a personalized video email and returns the provider
// email ID.
func (c *BombBombClient) SendVideoEmail(ctx context.Context, toEmail, subject, personalMessage, videoID string) (string, error) {
	if !c.Configured() {
		return "", apperrors.New(apperrors.KindProviderUnconfigured,
			"BombBomb credentials are not configured")
	}

	payload, _ := json.Marshal(map[string]string{
		"email":           toEmail,
		"subject":         subject,
		"personalMessage": personalMessage,
		"videoId":         videoID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/emails/send", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.userEmail, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindProviderRejected, "BombBomb API unreachable", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.Newf(apperrors.KindProviderRejected,
			"BombBomb send failed (%d): %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		EmailID string `json:"email_id"`
	}
	_ = json.Unmarshal(body, &parsed)
	return parsed.EmailID, nil
}
