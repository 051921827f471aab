package handlers

import (
	"net/http"

	"github.com/isdelr/socialsync-api/internal/services"
)

// ImageHandler proxies image searches.
type ImageHandler struct {
	service services.ImageServiceProvider
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service services.ImageServiceProvider) *ImageHandler {
	return &ImageHandler{service: service}
}

// Search handles GET /images/search?category=&vibe=.
func (h *ImageHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	images, err := h.service.Search(r.Context(), q.Get("category"), q.Get("vibe"))
	if err != nil {
		respondServiceError(w, r, err, "Not found")
		return
	}
	respondJSON(w, http.StatusOK, images)
}
