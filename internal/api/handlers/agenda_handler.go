package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/socialsync-api/internal/services"
)

// AgendaHandler serves the merged event and task timeline.
type AgendaHandler struct {
	service services.AgendaServiceProvider
}

// NewAgendaHandler creates a new AgendaHandler.
func NewAgendaHandler(service services.AgendaServiceProvider) *AgendaHandler {
	return &AgendaHandler{service: service}
}

// Agenda handles GET /agenda?filter=TODAY|WEEK|ALL.
func (h *AgendaHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Agenda(r.Context(), mustIdentity(r), r.URL.Query().Get("filter"))
	if err != nil {
		respondServiceError(w, r, err, "Not found")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Calendar handles GET /calendar?from=&to=.
func (h *AgendaHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = services.ParseDate("from", v); err != nil {
			respondServiceError(w, r, err, "Not found")
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = services.ParseDate("to", v); err != nil {
			respondServiceError(w, r, err, "Not found")
			return
		}
	}

	items, err := h.service.Calendar(r.Context(), mustIdentity(r), from, to)
	if err != nil {
		respondServiceError(w, r, err, "Not found")
		return
	}
	respondJSON(w, http.StatusOK, items)
}
