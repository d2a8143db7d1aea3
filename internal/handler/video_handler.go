// internal/handler/video_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/propreach/outreach-backend/internal/model"
	"github.com/propreach/outreach-backend/internal/service"
)

// VideoHandler serves avatar-video generation and video-email endpoints.
type VideoHandler struct {
	Service *service.OutreachService
}

// Generate kicks off a generation task, answering with a mock URL when the
// provider is unconfigured.
func (h *VideoHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text     string         `json:"text"`
		Prospect model.Prospect `json:"prospect"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	if body.Text == "" {
		writeValidationError(w, "Text is required")
		return
	}

	result, err := h.Service.GenerateVideo(r.Context(), body.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"videoUrl": result.VideoURL,
		"message":  result.Message,
	})
}

// HeyGenClone generates a talking-avatar video and waits for the result,
// long-polling the provider. Timeouts answer 408.
func (h *VideoHandler) HeyGenClone(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	if body.Text == "" {
		writeValidationError(w, "Text is required")
		return
	}

	result, err := h.Service.GenerateVideoClone(r.Context(), body.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"videoUrl": result.VideoURL,
		"videoId":  result.VideoID,
		"message":  result.Message,
	})
}

// Send delivers a personalized video email to the prospect.
func (h *VideoHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prospect  model.Prospect `json:"prospect"`
		Script    string         `json:"script"`
		YourName  string         `json:"yourName"`
		YourPhone string         `json:"yourPhone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "invalid body")
		return
	}
	if body.Script == "" || body.Prospect.Email == "" {
		writeValidationError(w, "Missing required fields")
		return
	}

	emailID, message, err := h.Service.SendVideoEmail(r.Context(), body.Prospect, body.Script, body.YourName, body.YourPhone)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{"success": true, "message": message}
	if emailID != "" {
		resp["emailId"] = emailID
	}
	writeJSON(w, http.StatusOK, resp)
}
