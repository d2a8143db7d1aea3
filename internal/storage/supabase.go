// internal/storage/supabase.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/propreach/outreach-backend/internal/apperrors"
)

// DefaultVoiceBucket is where synthesized voicemail audio lands.
const DefaultVoiceBucket = "voice-messages"

// DefaultMediaBucket is for general media uploads.
const DefaultMediaBucket = "media"

// SupabaseClient talks to the Supabase Storage REST API with the service
// role key.
type SupabaseClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewSupabaseClient builds a storage client. baseURL and serviceKey may be
// empty; Upload then reports BackendUnavailable so the caller can fall back
// to local disk.
func NewSupabaseClient(baseURL, serviceKey string) *SupabaseClient {
	return &SupabaseClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether credentials are present.
func (c *SupabaseClient) Configured() bool {
	return c.baseURL != "" && c.serviceKey != ""
}

// Upload stores data under name in bucket and returns the public URL.
// Existing objects are never overwritten; a name collision fails the upload.
func (c *SupabaseClient) Upload(ctx context.Context, data []byte, name, bucket, contentType string) (string, error) {
	if !c.Configured() {
		return "", apperrors.New(apperrors.KindBackendUnavailable,
			"Supabase client is not configured. Please check your credentials.")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindBackendUnavailable, "object store unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := string(body)
		if strings.Contains(detail, "Bucket") || strings.Contains(detail, "not found") {
			return "", apperrors.Newf(apperrors.KindProviderRejected,
				"storage bucket %q not found. Create it in your Supabase dashboard: "+
					"go to Storage, create a bucket named %q, make it public, and try again", bucket, bucket)
		}
		return "", apperrors.Newf(apperrors.KindProviderRejected,
			"failed to upload to Supabase (%d): %s", resp.StatusCode, detail)
	}

	publicURL := c.PublicURL(bucket, name)
	c.verifyReachable(ctx, publicURL, contentType)
	return publicURL, nil
}

// PublicURL returns the dereferenceable URL of an object in a public bucket.
func (c *SupabaseClient) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, path)
}

// SignedURL creates a time-limited URL for an object in a private bucket.
func (c *SupabaseClient) SignedURL(ctx context.Context, bucket, path string, expiresIn int) (string, error) {
	if !c.Configured() {
		return "", apperrors.New(apperrors.KindBackendUnavailable,
			"Supabase client is not configured. Please check your credentials.")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.baseURL, bucket, path)
	payload, _ := json.Marshal(map[string]int{"expiresIn": expiresIn})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindBackendUnavailable, "object store unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", apperrors.Newf(apperrors.KindProviderRejected,
			"failed to sign URL (%d): %s", resp.StatusCode, string(body))
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", apperrors.Wrap(apperrors.KindProviderRejected, "invalid sign response", err)
	}
	if signed.SignedURL == "" {
		return "", apperrors.New(apperrors.KindProviderRejected, "no signed URL returned")
	}
	return c.baseURL + "/storage/v1" + signed.SignedURL, nil
}

// verifyReachable HEADs the public URL and warns on surprises. Best effort
// only; the messaging provider will fetch the URL itself either way.
func (c *SupabaseClient) verifyReachable(ctx context.Context, publicURL, wantType string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, publicURL, nil)
	if err != nil {
		return
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Println("⚠️ could not verify media URL accessibility:", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️ media URL returned %d: %s", resp.StatusCode, publicURL)
		return
	}
	got := resp.Header.Get("Content-Type")
	if wantType != "" && got != "" && !strings.HasPrefix(got, strings.SplitN(wantType, "/", 2)[0]) {
		log.Printf("⚠️ media URL content-type is %q, expected %q", got, wantType)
	}
}
