package image

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/eyxpoliba/emotion-core/internal/pkg/blob"
	"github.com/eyxpoliba/emotion-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Downloader fetches a single blob by name.
type Downloader interface {
	Download(ctx context.Context, name string) (*blob.Object, error)
}

type Handler struct {
	store Downloader
	log   *zap.Logger
}

func NewHandler(store Downloader, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/download-image", h.downloadImage)
}

func (h *Handler) downloadImage(c *gin.Context) {
	name := strings.TrimSpace(c.Query("imageName"))
	if name == "" {
		response.BadRequest(c, "imageName is required")
		return
	}

	obj, err := h.store.Download(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			response.NotFound(c, "Image not found")
			return
		}
		h.log.Error("image download failed", zap.String("image", name), zap.Error(err))
		response.InternalError(c, "Image download failed")
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, nil)
}
