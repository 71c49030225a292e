package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/Ayash13/Antivity/internal/server/judge"
	"github.com/Ayash13/Antivity/internal/vision"
)

// maxValidateBody caps the multipart body; the image itself is limited to
// vision.MaxImageBytes, the rest is form overhead.
const maxValidateBody = vision.MaxImageBytes + 1<<20

// handleValidatePhoto implements POST /api/validate-photo: multipart form
// with an image under "file" and the expected object under "target".
// Invalid input is rejected with 400 before any model call; backend faults
// are 500. A definitive "not found" verdict is a 200 with valid=false.
func (h *Handler) handleValidatePhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxValidateBody)

	if err := r.ParseMultipartForm(maxValidateBody); err != nil {
		h.writeVerdictError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeVerdictError(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	target := r.FormValue("target")
	if target == "" {
		h.writeVerdictError(w, "No target object provided", http.StatusBadRequest)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		h.writeVerdictError(w, "Failed to read image", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")

	result, err := h.validation.ValidatePhoto(r.Context(), image, contentType, target)
	if err != nil {
		switch {
		case errors.Is(err, vision.ErrUnsupportedImageType):
			h.writeVerdictError(w, "Invalid file type. Please upload JPEG, PNG, or WebP", http.StatusBadRequest)
		case errors.Is(err, vision.ErrImageTooLarge):
			h.writeVerdictError(w, "Image too large. Maximum size is 5MB", http.StatusBadRequest)
		case errors.Is(err, vision.ErrEmptyImage):
			h.writeVerdictError(w, "No image file provided", http.StatusBadRequest)
		case errors.Is(err, judge.ErrNotConfigured):
			h.writeVerdictError(w, "AI service not configured", http.StatusInternalServerError)
		default:
			h.logger.Error(r.Context(), "photo validation failed", "target", target, "error", err)
			h.writeVerdictError(w, "Failed to validate image", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// writeVerdictError keeps the validation endpoint's error shape: clients
// always see a "valid" flag alongside the error.
func (h *Handler) writeVerdictError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, map[string]any{"error": message, "valid": false})
}
