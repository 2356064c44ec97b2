package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-lending/internal/domain"
)

// envelope es el formato comun de respuesta; coincide con domain.Envelope.
type envelope struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	Data      any              `json:"data,omitempty"`
	Timestamp domain.Timestamp `json:"timestamp"`
	ErrorCode string           `json:"errorCode,omitempty"`
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: domain.NewTimestamp(time.Now()),
	})
}

func fail(c *gin.Context, status int, message, code string) {
	c.JSON(status, envelope{
		Success:   false,
		Message:   message,
		Timestamp: domain.NewTimestamp(time.Now()),
		ErrorCode: code,
	})
}
