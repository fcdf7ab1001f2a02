package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON error envelope of every API endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, &ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

func respondInternalError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request processing failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
}
