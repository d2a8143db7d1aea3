// internal/handler/respond.go

// Package handler holds the HTTP surface. Every endpoint answers JSON and
// converts failures into a structured {error: string} body; nothing escapes
// as an unhandled fault.
package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/propreach/outreach-backend/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("⚠️ failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	log.Println("request failed:", err)
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
