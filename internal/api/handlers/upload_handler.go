package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/services"
	"github.com/rs/zerolog/log"
)

// multipart overhead allowed on top of the file size limit
const formOverhead = 1 << 20

// UploadHandler accepts image uploads and forwards them to object storage.
type UploadHandler struct {
	service  services.UploadServiceProvider
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service services.UploadServiceProvider, maxBytes int64) *UploadHandler {
	return &UploadHandler{service: service, maxBytes: maxBytes}
}

// Upload handles POST /upload with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "File too large.")
			return
		}
		respondError(w, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer file.Close()

	userID := mustIdentity(r)
	url, err := h.service.Upload(r.Context(), userID, header.Filename, file)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			respondError(w, http.StatusBadRequest, validationMessage(err))
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Upload failed")
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
