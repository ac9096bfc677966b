package survey

import (
	"errors"

	"github.com/eyxpoliba/emotion-core/internal/middleware"
	"github.com/eyxpoliba/emotion-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	recorder Recorder
	log      *zap.Logger
}

func NewHandler(recorder Recorder, log *zap.Logger) *Handler {
	return &Handler{recorder: recorder, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register-result", h.registerResult)
}

func (h *Handler) registerResult(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Invalid or expired token")
		return
	}

	var dto RegisterResultDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// The batch owner comes from the execution context only; a user id in
	// the payload would let one participant write results for another.
	err := h.recorder.Record(c.Request.Context(), principal.UserID, dto.ImagesDescriptionsAndReactions)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			h.log.Error("token references missing user", zap.Int64("user_id", principal.UserID))
			response.InternalError(c, "User identity not found")
			return
		}
		h.log.Error("result registration failed", zap.Error(err))
		response.InternalError(c, "Result registration failed")
		return
	}

	response.Created(c, response.Message{Message: "Result registered successfully"})
}
