// internal/handler/delivery_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/propreach/outreach-backend/internal/repository"
)

// DeliveryHandler exposes the delivery log when a database is configured.
type DeliveryHandler struct {
	Store repository.DeliveryStore // nil without DATABASE_URL
}

// ListRecent returns the newest delivery records.
func (h *DeliveryHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}, "note": "delivery log disabled (DATABASE_URL not set)"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.Store.ListRecent(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}
