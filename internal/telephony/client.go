// internal/telephony/client.go

// Package telephony wraps the Twilio REST API for SMS, MMS with media
// attachments, and ringless voicemail drops driven by answering-machine
// detection. Provider errors are wrapped with a human-readable hint and
// never retried; the caller owns retry policy.
package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/propreach/outreach-backend/internal/apperrors"
	"github.com/propreach/outreach-backend/internal/config"
)

// machineDetectionTimeout is how long Twilio waits to classify human vs
// answering machine before connecting the call.
const machineDetectionTimeout = "10"

var statusCallbackEvents = []string{"initiated", "ringing", "answered", "completed"}

// Client is an explicitly constructed Twilio REST client.
type Client struct {
	accountSID    string
	authToken     string
	defaultFrom   string
	baseURL       string
	publicBaseURL string
	httpClient    *http.Client
}

// MessageResult is the provider acknowledgement for an SMS or MMS.
type MessageResult struct {
	MessageSID string `json:"messageSid"`
	Status     string `json:"status"`
	To         string `json:"to"`
	From       string `json:"from"`
	MediaCount int    `json:"mediaCount,omitempty"`
}

// CallResult is the provider acknowledgement for a placed call.
type CallResult struct {
	CallSID string `json:"callSid"`
	Status  string `json:"status"`
	To      string `json:"to"`
	From    string `json:"from"`
}

// New builds a telephony client from config. publicBaseURL is the
// externally reachable base used to construct TwiML and status callbacks.
func New(cfg config.TwilioConfig, publicBaseURL string) *Client {
	return &Client{
		accountSID:    cfg.AccountSID,
		authToken:     cfg.AuthToken,
		defaultFrom:   cfg.PhoneNumber,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether account credentials are present.
func (c *Client) Configured() bool {
	return c.accountSID != "" && c.authToken != ""
}

// DefaultFrom is the configured sending number.
func (c *Client) DefaultFrom() string { return c.defaultFrom }

var errUnconfigured = apperrors.New(apperrors.KindProviderUnconfigured,
	"Twilio client is not configured. Please check your credentials.")

// SendSMS sends a plain text message.
func (c *Client) SendSMS(ctx context.Context, to, from, body string) (*MessageResult, error) {
	if !c.Configured() {
		return nil, errUnconfigured
	}
	if from == "" {
		from = c.defaultFrom
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	return c.createMessage(ctx, form, 0)
}

// SendMMS sends a message carrying a media attachment URL. mediaURL must be
// an absolute HTTP(S) URL; a best-effort HEAD check of its content type is
// logged but never fatal.
func (c *Client) SendMMS(ctx context.Context, to, from, mediaURL, body string) (*MessageResult, error) {
	if !c.Configured() {
		return nil, errUnconfigured
	}
	if !isHTTPURL(mediaURL) {
		return nil, apperrors.New(apperrors.KindValidation,
			"invalid mediaUrl: must be a valid HTTP/HTTPS URL")
	}
	if from == "" {
		from = c.defaultFrom
	}

	c.preflightMedia(ctx, mediaURL)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("MediaUrl", mediaURL)
	if body != "" {
		form.Set("Body", body)
	}

	return c.createMessage(ctx, form, 1)
}

// SendVoicemail places a call that plays audioURL when answered, with
// answering-machine detection enabled so the message lands on voicemail.
func (c *Client) SendVoicemail(ctx context.Context, to, from, audioURL, callerID string) (*CallResult, error) {
	if !c.Configured() {
		return nil, errUnconfigured
	}
	if !isHTTPURL(audioURL) {
		return nil, apperrors.New(apperrors.KindValidation,
			"invalid audioUrl: must be a valid HTTP/HTTPS URL")
	}
	if err := c.checkCallbackBase(); err != nil {
		return nil, err
	}
	if from == "" {
		from = c.defaultFrom
	}
	if callerID != "" {
		from = callerID
	}

	twimlURL := fmt.Sprintf("%s/twilio/voicemail-drop?audioUrl=%s",
		c.publicBaseURL, url.QueryEscape(audioURL))

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Url", twimlURL)
	form.Set("MachineDetection", "Enable")
	form.Set("MachineDetectionTimeout", machineDetectionTimeout)
	form.Set("StatusCallback", c.publicBaseURL+"/twilio/call-status")
	for _, ev := range statusCallbackEvents {
		form.Add("StatusCallbackEvent", ev)
	}
	form.Set("Record", "false")

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	var resp twilioResponse
	if err := c.postForm(ctx, endpoint, form, &resp); err != nil {
		return nil, wrapCallError(err)
	}

	log.Printf("voicemail call initiated - SID: %s, Status: %s, To: %s", resp.SID, resp.Status, to)
	return &CallResult{CallSID: resp.SID, Status: resp.Status, To: resp.To, From: resp.From}, nil
}

// checkCallbackBase validates that Twilio can reach our webhooks. Loopback
// hosts are rejected unless the URL carries an ngrok tunnel marker.
func (c *Client) checkCallbackBase() error {
	base := c.publicBaseURL
	if base == "" {
		return apperrors.New(apperrors.KindCallbackURLRequired,
			"PUBLIC_BASE_URL is not configured. This is required for voicemail functionality. "+
				"Set it to your publicly accessible HTTPS URL (e.g., https://yourdomain.com). "+
				"For local development, expose your server with a tunnel such as ngrok.")
	}
	isNgrok := strings.Contains(base, "ngrok")
	isLoopback := (strings.Contains(base, "localhost") ||
		strings.Contains(base, "127.0.0.1") ||
		strings.Contains(base, "0.0.0.0")) && !isNgrok
	if isLoopback || !strings.HasPrefix(base, "https://") {
		return apperrors.Newf(apperrors.KindCallbackURLNotPublic,
			"PUBLIC_BASE_URL must be a publicly accessible HTTPS URL, got %q. "+
				"Twilio cannot reach localhost; expose your server with ngrok and set "+
				"PUBLIC_BASE_URL to the tunnel URL", base)
	}
	if isNgrok {
		log.Println("using ngrok URL for callbacks:", base)
	}
	return nil
}

func (c *Client) createMessage(ctx context.Context, form url.Values, mediaCount int) (*MessageResult, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	var resp twilioResponse
	if err := c.postForm(ctx, endpoint, form, &resp); err != nil {
		return nil, err
	}
	return &MessageResult{
		MessageSID: resp.SID,
		Status:     resp.Status,
		To:         resp.To,
		From:       resp.From,
		MediaCount: mediaCount,
	}, nil
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"` // set on error responses
	Code    int    `json:"code"`
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out *twilioResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindProviderRejected, "Twilio API unreachable", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Newf(apperrors.KindProviderRejected,
			"invalid Twilio response (%d): %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return providerError(out.Message, out.Code)
	}
	return nil
}

// providerError maps an upstream failure to a hinted error. Malformed
// destinations and trial-account limits are the ones users actually hit.
func providerError(message string, code int) error {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "trial") {
		return apperrors.Newf(apperrors.KindProviderRejected,
			"Twilio trial accounts may have limitations. Upgrade your account or verify the recipient number (%s)", message)
	}
	if code == 21211 || strings.Contains(lower, "not a valid phone number") {
		return apperrors.Newf(apperrors.KindProviderRejected,
			"destination number rejected by Twilio: %s", message)
	}
	return apperrors.Newf(apperrors.KindProviderRejected, "Twilio API error %d: %s", code, message)
}

func wrapCallError(err error) error {
	if apperrors.KindOf(err) != apperrors.KindProviderRejected {
		return err
	}
	if strings.Contains(strings.ToLower(err.Error()), "call") {
		return apperrors.Wrap(apperrors.KindProviderRejected,
			"voicemail call failed; ensure the recipient number is valid and can receive calls", err)
	}
	return err
}

// preflightMedia HEADs the media URL so a wrong content type shows up in the
// logs before Twilio fetches it. Non-fatal by contract.
func (c *Client) preflightMedia(ctx context.Context, mediaURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, mediaURL, nil)
	if err != nil {
		return
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Println("⚠️ media URL preflight failed:", err)
		return
	}
	resp.Body.Close()
	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️ media URL preflight returned %d for %s", resp.StatusCode, mediaURL)
	} else if ct != "" && !strings.HasPrefix(ct, "audio/") && !strings.HasPrefix(ct, "video/") && !strings.HasPrefix(ct, "image/") {
		log.Printf("⚠️ media URL content-type is %q, carriers may reject it", ct)
	}
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
