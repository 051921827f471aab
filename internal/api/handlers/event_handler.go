package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/socialsync-api/internal/models"
	"github.com/isdelr/socialsync-api/internal/services"
)

const eventNotFound = "Event not found or not authorized"

// EventHandler handles HTTP requests for the caller's events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetAll lists the caller's events.
func (h *EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID := mustIdentity(r)
	events, err := h.service.ListEvents(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, eventNotFound)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Get returns one of the caller's events.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), mustIdentity(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, eventNotFound)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Create adds an event owned by the caller.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}

	event, err := h.service.CreateEvent(r.Context(), mustIdentity(r), in)
	if err != nil {
		respondServiceError(w, r, err, eventNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event created successfully",
		"event":   event,
	})
}

// Update applies a partial update to one of the caller's events.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), mustIdentity(r), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err, eventNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// Delete removes one of the caller's events.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.DeleteEvent(r.Context(), mustIdentity(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, eventNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Event deleted successfully",
		"event":   event,
	})
}
