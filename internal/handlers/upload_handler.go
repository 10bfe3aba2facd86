package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/anonto42/pigstar/backend/internal/metrics"
	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UploadHandler forwards image uploads to the media CDN
type UploadHandler struct {
	store    media.Store
	maxBytes int64
	log      *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store media.Store, maxBytes int64, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, maxBytes: maxBytes, log: log}
}

// RegisterUploadRoutes registers upload routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload", h.Upload, middleware.RequireUser)
}

// Upload accepts a multipart "file" field and returns its delivery URL
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file uploaded"})
	}
	if fh.Size > h.maxBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File too large"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unreadable file"})
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unreadable file"})
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Only image uploads are allowed"})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unreadable file"})
	}

	url, err := h.store.Upload(c.Request().Context(), fh.Filename, contentType, src, fh.Size)
	if err != nil {
		metrics.MediaOperationsTotal.WithLabelValues("upload", "error").Inc()
		h.log.Error("upload failed", zap.String("filename", fh.Filename), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed"})
	}
	metrics.MediaOperationsTotal.WithLabelValues("upload", "ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
