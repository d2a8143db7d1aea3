// internal/handler/media_handler.go
package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/propreach/outreach-backend/internal/storage"
)

// maxUploadBytes caps multipart uploads at 25 MB, comfortably above any
// voicemail clip.
const maxUploadBytes = 25 << 20

// MediaHandler serves media upload and proxies bytes to the storage backend.
type MediaHandler struct {
	Store *storage.Store
}

// Upload accepts a multipart form with a "file" field, stores it under a
// unique name, and returns the public URL.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeValidationError(w, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidationError(w, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeValidationError(w, "failed to read file: "+err.Error())
		return
	}
	if len(data) == 0 {
		writeValidationError(w, "No file data provided")
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		ext = "mp3"
	}
	contentType := header.Header.Get("Content-Type")

	ref, err := h.Store.Put(r.Context(), data, ext, storage.DefaultMediaBucket, contentType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":      ref.PublicURL,
		"filename": ref.StorageKey,
	})
}
