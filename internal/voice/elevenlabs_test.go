package voice

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
)

func clientFor(srv *httptest.Server) *Client {
	return NewClient(config.ElevenLabsConfig{
		APIKey:         "el-key",
		BaseURL:        srv.URL,
		DefaultVoiceID: "2kz7I2qp93JeVv97SMdi",
		DefaultModel:   "eleven_multilingual_v2",
	})
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/2kz7I2qp93JeVv97SMdi", r.URL.Path, "default voice fills in")
		assert.Equal(t, "el-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		var payload struct {
			Text          string             `json:"text"`
			ModelID       string             `json:"model_id"`
			VoiceSettings map[string]float64 `json:"voice_settings"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Hi Sam, this is Jordan", payload.Text)
		assert.Equal(t, "eleven_multilingual_v2", payload.ModelID)
		assert.Equal(t, 0.5, payload.VoiceSettings["stability"])
		assert.Equal(t, 0.75, payload.VoiceSettings["similarity_boost"])

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mpeg-bytes"))
	}))
	defer srv.Close()

	audio, err := clientFor(srv).Generate(context.Background(), "Hi Sam, this is Jordan", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("mpeg-bytes"), audio)
}

func TestGenerateExplicitVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/custom-voice", r.URL.Path)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := clientFor(srv).Generate(context.Background(), "hello", "custom-voice")
	assert.NoError(t, err)
}

func TestGenerateUnconfigured(t *testing.T) {
	c := NewClient(config.ElevenLabsConfig{})
	_, err := c.Generate(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderUnconfigured, apperrors.KindOf(err))
}

func TestGenerateErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	_, err := clientFor(srv).Generate(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderRejected, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voices", r.URL.Path)
		w.Write([]byte(`{"voices":[{"voice_id":"v1","name":"Rachel"},{"voice_id":"v2","name":"Adam"}]}`))
	}))
	defer srv.Close()

	voices, err := clientFor(srv).Voices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 2)
	assert.Equal(t, "Rachel", voices[0].Name)
	assert.Equal(t, "v2", voices[1].VoiceID)
}
