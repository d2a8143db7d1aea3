package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propreach/outreach-backend/internal/apperrors"
)

func TestPutFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(
		NewSupabaseClient("", ""), // unconfigured backend
		NewLocalStore(dir, "http://localhost:3001/"),
	)

	ref, err := store.PutNamed(context.Background(), []byte("audio-bytes"), "clip.mp3", DefaultVoiceBucket, "audio/mpeg")
	require.NoError(t, err)

	assert.Equal(t, "clip.mp3", ref.StorageKey)
	assert.Equal(t, "http://localhost:3001/temp-media/clip.mp3", ref.PublicURL)

	data, err := os.ReadFile(filepath.Join(dir, "temp-media", "clip.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestPutNamedNeverOverwritesLocal(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(NewSupabaseClient("", ""), NewLocalStore(dir, "http://localhost:3001"))

	_, err := store.PutNamed(context.Background(), []byte("one"), "clip.mp3", DefaultVoiceBucket, "audio/mpeg")
	require.NoError(t, err)

	_, err = store.PutNamed(context.Background(), []byte("two"), "clip.mp3", DefaultVoiceBucket, "audio/mpeg")
	require.Error(t, err)

	data, _ := os.ReadFile(filepath.Join(dir, "temp-media", "clip.mp3"))
	assert.Equal(t, "one", string(data))
}

func TestPutInfersContentTypeAndName(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	store := NewStore(NewSupabaseClient(srv.URL, "key"), nil)
	ref, err := store.Put(context.Background(), []byte("x"), "wav", DefaultMediaBucket, "")
	require.NoError(t, err)

	assert.Equal(t, "audio/wav", gotContentType)
	assert.Equal(t, "audio/wav", ref.ContentType)
	assert.Regexp(t, `^media-\d+-[0-9a-z]{6}\.wav$`, ref.StorageKey)
}

func TestPutRejectionDoesNotFallBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"access denied"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	store := NewStore(NewSupabaseClient(srv.URL, "key"), NewLocalStore(dir, "http://localhost:3001"))

	_, err := store.PutNamed(context.Background(), []byte("x"), "clip.mp3", DefaultVoiceBucket, "audio/mpeg")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderRejected, apperrors.KindOf(err))

	_, statErr := os.Stat(filepath.Join(dir, "temp-media", "clip.mp3"))
	assert.True(t, os.IsNotExist(statErr), "provider rejections must not spill onto local disk")
}
