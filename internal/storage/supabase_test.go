package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propreach/outreach-backend/internal/apperrors"
)

func TestUploadReturnsPublicURL(t *testing.T) {
	var uploaded struct {
		path        string
		contentType string
		upsert      string
		auth        string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "audio/mpeg")
			w.WriteHeader(http.StatusOK)
			return
		}
		uploaded.path = r.URL.Path
		uploaded.contentType = r.Header.Get("Content-Type")
		uploaded.upsert = r.Header.Get("x-upsert")
		uploaded.auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"Key":"voice-messages/clip.mp3"}`))
	}))
	defer srv.Close()

	c := NewSupabaseClient(srv.URL, "service-key")
	url, err := c.Upload(context.Background(), []byte("audio"), "clip.mp3", DefaultVoiceBucket, "audio/mpeg")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/storage/v1/object/public/voice-messages/clip.mp3", url)
	assert.Equal(t, "/storage/v1/object/voice-messages/clip.mp3", uploaded.path)
	assert.Equal(t, "audio/mpeg", uploaded.contentType)
	assert.Equal(t, "false", uploaded.upsert, "uploads must never overwrite")
	assert.Equal(t, "Bearer service-key", uploaded.auth)
}

func TestUploadUnconfigured(t *testing.T) {
	c := NewSupabaseClient("", "")
	_, err := c.Upload(context.Background(), []byte("x"), "a.mp3", DefaultVoiceBucket, "audio/mpeg")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindBackendUnavailable, apperrors.KindOf(err))
}

func TestUploadBucketMissingHasRemediation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Bucket not found"}`))
	}))
	defer srv.Close()

	c := NewSupabaseClient(srv.URL, "service-key")
	_, err := c.Upload(context.Background(), []byte("x"), "a.mp3", "missing", "audio/mpeg")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderRejected, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "Create it in your Supabase dashboard")
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestUploadUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewSupabaseClient(srv.URL, "service-key")
	_, err := c.Upload(context.Background(), []byte("x"), "a.mp3", DefaultVoiceBucket, "audio/mpeg")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindBackendUnavailable, apperrors.KindOf(err))
}

func TestSignedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/sign/voice-messages/clip.mp3", r.URL.Path)
		w.Write([]byte(`{"signedURL":"/object/sign/voice-messages/clip.mp3?token=abc"}`))
	}))
	defer srv.Close()

	c := NewSupabaseClient(srv.URL, "service-key")
	url, err := c.SignedURL(context.Background(), DefaultVoiceBucket, "clip.mp3", 3600)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/sign/voice-messages/clip.mp3?token=abc", url)
}

func TestSignedURLEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewSupabaseClient(srv.URL, "service-key")
	_, err := c.SignedURL(context.Background(), DefaultVoiceBucket, "clip.mp3", 3600)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderRejected, apperrors.KindOf(err))
}
