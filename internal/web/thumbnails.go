package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Folio/internal/core/thumbnails"
)

// ThumbnailHandler serves resized post images.
// GET /thumbnails/{preset}?src=<image url>
type ThumbnailHandler struct {
	service thumbnails.Service
	logger  *slog.Logger
}

// NewThumbnailHandler creates a ThumbnailHandler
func NewThumbnailHandler(service thumbnails.Service, logger *slog.Logger) *ThumbnailHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThumbnailHandler{service: service, logger: logger}
}

func (h *ThumbnailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	preset := chi.URLParam(r, "preset")
	src := r.URL.Query().Get("src")
	if src == "" {
		http.Error(w, "src is required", http.StatusBadRequest)
		return
	}

	data, err := h.service.GetThumbnail(r.Context(), preset, src)
	switch {
	case errors.Is(err, thumbnails.ErrInvalidPreset):
		http.NotFound(w, r)
		return
	case errors.Is(err, thumbnails.ErrHostNotAllowed):
		http.Error(w, "image host not allowed", http.StatusBadRequest)
		return
	case err != nil:
		// The source is on an allowed host, so the browser can load the original instead
		h.logger.Warn("thumbnail failed, redirecting to source", "preset", preset, "src", src, "error", err)
		http.Redirect(w, r, src, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		h.logger.Debug("failed to write thumbnail", "error", err)
	}
}
