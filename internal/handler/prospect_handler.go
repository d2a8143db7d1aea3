// internal/handler/prospect_handler.go
package handler

import (
	"io"
	"net/http"

	"github.com/propreach/outreach-backend/internal/ingest"
)

// ProspectHandler parses uploaded prospect lists.
type ProspectHandler struct{}

// Parse accepts a multipart CSV/XLSX upload and returns normalized
// prospects. Fully blank rows are dropped silently.
func (h *ProspectHandler) Parse(w http.ResponseWriter, r *http.Request) {
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

	prospects, err := ingest.ParseProspects(header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prospects": prospects,
		"count":     len(prospects),
	})
}
