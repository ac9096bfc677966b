package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message is the flat body shape used for every non-payload response.
type Message struct {
	Message string `json:"message"`
}

func OK(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Message{Message: msg})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Message{Message: msg})
}

// Unauthorized aborts the request; it is the single exit used for every
// authentication failure so that clients cannot tell the reasons apart.
func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Message{Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Message{Message: msg})
}

func InternalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Message{Message: msg})
}
