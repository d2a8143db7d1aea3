// internal/handler/voice_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/propreach/outreach-backend/internal/model"
	"github.com/propreach/outreach-backend/internal/service"
	"github.com/propreach/outreach-backend/internal/voice"
)

// VoiceHandler serves voice synthesis and voicemail delivery endpoints.
type VoiceHandler struct {
	Voice   *voice.Client
	Service *service.OutreachService
}

// Generate synthesizes text and streams the MPEG audio back.
func (h *VoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text    string `json:"text"`
		VoiceID string `json:"voiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	if body.Text == "" {
		writeValidationError(w, "Text is required")
		return
	}

	audio, err := h.Voice.Generate(r.Context(), body.Text, body.VoiceID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "attachment; filename=voice.mp3")
	w.Write(audio)
}

// Voices lists the synthesis voices available to the account.
func (h *VoiceHandler) Voices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.Voice.Voices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"voices": voices})
}

// Send synthesizes a personalized script and delivers it as an MMS.
func (h *VoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prospect  model.Prospect `json:"prospect"`
		Script    string         `json:"script"`
		YourName  string         `json:"yourName"`
		YourPhone string         `json:"yourPhone"`
		VoiceID   string         `json:"voiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	if body.Script == "" || body.Prospect.PhoneNumber == "" {
		writeValidationError(w, "Missing required fields: prospect, script, and phone number are required")
		return
	}

	result, err := h.Service.SendVoicemailMMS(r.Context(), body.Prospect, body.Script, body.YourName, body.YourPhone, body.VoiceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    result.Message,
		"messageSid": result.MessageSID,
		"status":     result.Status,
		"mediaUrl":   result.MediaURL,
	})
}

// SendFromSupabase places a voicemail call using a file already in storage.
func (h *VoiceHandler) SendFromSupabase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To           string `json:"to"`
		FilePath     string `json:"filePath"`
		Bucket       string `json:"bucket"`
		UseSignedURL bool   `json:"useSignedUrl"`
		From         string `json:"from"`
		CallerID     string `json:"callerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	if body.To == "" {
		writeValidationError(w, "Phone number (to) is required")
		return
	}
	if body.FilePath == "" {
		writeValidationError(w, "File path (filePath) is required. This should be the path to your media file in storage (e.g., 'myfile.mp3' or 'folder/myfile.mp3')")
		return
	}

	result, err := h.Service.SendVoicemailFromStorage(r.Context(), body.To, body.FilePath, body.Bucket, body.UseSignedURL, body.From, body.CallerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  result.Message,
		"callSid":  result.CallSID,
		"status":   result.Status,
		"audioUrl": result.AudioURL,
		"filePath": body.FilePath,
	})
}

// Test sends a plain SMS to verify provider connectivity.
func (h *VoiceHandler) Test(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To          string `json:"to"`
		PhoneNumber string `json:"phoneNumber"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	to := body.To
	if to == "" {
		to = body.PhoneNumber
	}
	if to == "" {
		writeValidationError(w, "Phone number is required")
		return
	}

	result, err := h.Service.SendTestSMS(r.Context(), to, body.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Test message sent to " + to,
		"messageSid": result.MessageSID,
		"status":     result.Status,
	})
}

// TestAudio sends a test MMS from an audio URL or the bundled test clip.
func (h *VoiceHandler) TestAudio(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To       string `json:"to"`
		AudioURL string `json:"audioUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	if body.To == "" {
		writeValidationError(w, "Phone number is required")
		return
	}

	result, err := h.Service.SendTestAudio(r.Context(), body.To, body.AudioURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    result.Message,
		"messageSid": result.MessageSID,
		"status":     result.Status,
		"mediaUrl":   result.MediaURL,
	})
}
