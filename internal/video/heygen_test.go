package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propreach/outreach-backend/internal/apperrors"
	"github.com/propreach/outreach-backend/internal/config"
	"github.com/propreach/outreach-backend/internal/jobs"
)

func heygenClientFor(srv *httptest.Server) *HeyGenClient {
	return NewHeyGenClient(config.HeyGenConfig{
		APIKey:      "hg-key",
		AvatarID:    "photo-1",
		VoiceID:     "voice-1",
		GenerateURL: srv.URL,
		StatusURL:   srv.URL,
	})
}

func TestSubmitReturnsVideoID(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video/generate", r.URL.Path)
		assert.Equal(t, "hg-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"data":{"video_id":"vid-123"}}`))
	}))
	defer srv.Close()

	id, err := heygenClientFor(srv).Submit(context.Background(), "Hi Sam, about 123 Main St")
	require.NoError(t, err)
	assert.Equal(t, "vid-123", id)

	inputs, ok := payload["video_inputs"].([]any)
	require.True(t, ok)
	require.Len(t, inputs, 1)
	input := inputs[0].(map[string]any)
	character := input["character"].(map[string]any)
	assert.Equal(t, "talking_photo", character["type"])
	assert.Equal(t, "photo-1", character["talking_photo_id"])
	voice := input["voice"].(map[string]any)
	assert.Equal(t, "voice-1", voice["voice_id"])
	assert.Equal(t, "Hi Sam, about 123 Main St", voice["input_text"])
	dim := payload["dimension"].(map[string]any)
	assert.Equal(t, float64(560), dim["width"])
	assert.Equal(t, float64(720), dim["height"])
}

func TestSubmitMissingVideoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	_, err := heygenClientFor(srv).Submit(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSubmissionRejected, apperrors.KindOf(err))
}

func TestSubmitProviderErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"talking photo not found"}}`))
	}))
	defer srv.Close()

	_, err := heygenClientFor(srv).Submit(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderRejected, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "talking photo not found")
}

func TestSubmitUnconfigured(t *testing.T) {
	c := NewHeyGenClient(config.HeyGenConfig{})
	_, err := c.Submit(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderUnconfigured, apperrors.KindOf(err))
}

func TestStatusCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video_status.get", r.URL.Path)
		assert.Equal(t, "vid-123", r.URL.Query().Get("video_id"))
		w.Write([]byte(`{"data":{"status":"completed","video_url":"https://cdn.heygen.test/v.mp4"}}`))
	}))
	defer srv.Close()

	status, err := heygenClientFor(srv).Status(context.Background(), "vid-123")
	require.NoError(t, err)
	assert.Equal(t, jobs.StateCompleted, status.State)
	assert.Equal(t, "https://cdn.heygen.test/v.mp4", status.ResultURL)
}

func TestStatusFailedCarriesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"status":"failed","error":"render crashed"}}`))
	}))
	defer srv.Close()

	status, err := heygenClientFor(srv).Status(context.Background(), "vid-123")
	require.NoError(t, err)
	assert.Equal(t, jobs.StateFailed, status.State)
	assert.Equal(t, "render crashed", status.Detail)
}

func TestStatusEmptyMeansPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	status, err := heygenClientFor(srv).Status(context.Background(), "vid-123")
	require.NoError(t, err)
	assert.Equal(t, jobs.StatePending, status.State)
}

func TestStatusNotFoundIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := heygenClientFor(srv).Status(context.Background(), "vid-123")
	assert.Error(t, err, "poller treats this as transient and keeps polling")
}

func TestBombBombSendVideoEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails/send", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "agent@example.com", user)
		assert.Equal(t, "bb-key", pass)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sam@example.com", payload["email"])
		assert.Equal(t, "vid-9", payload["videoId"])
		w.Write([]byte(`{"email_id":"em-42"}`))
	}))
	defer srv.Close()

	c := NewBombBombClient(config.BombBombConfig{
		APIKey: "bb-key", UserEmail: "agent@example.com", BaseURL: srv.URL,
	})
	id, err := c.SendVideoEmail(context.Background(), "sam@example.com", "Follow-up", "Hi Sam", "vid-9")
	require.NoError(t, err)
	assert.Equal(t, "em-42", id)
}

func TestBombBombUnconfigured(t *testing.T) {
	c := NewBombBombClient(config.BombBombConfig{})
	_, err := c.SendVideoEmail(context.Background(), "sam@example.com", "s", "m", "v")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderUnconfigured, apperrors.KindOf(err))
}
