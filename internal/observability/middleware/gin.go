package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kveer007/tracker-reminders/internal/observability/metrics"
)

// GinConfig configures the request logging middleware.
type GinConfig struct {
	SkipPaths   []string
	HTTPMetrics *metrics.HTTPMetrics
}

// Gin returns a middleware that logs each request and records HTTP
// metrics.
func Gin(cfg GinConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		ctx := c.Request.Context()
		status := c.Writer.Status()

		cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, c.FullPath(), status, elapsed.Seconds())

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", elapsed),
		}
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "request completed", attrs...)
		} else {
			slog.InfoContext(ctx, "request completed", attrs...)
		}
	}
}

// PanicRecoveryGin converts handler panics into 500 responses with a
// structured log entry instead of crashing the process.
func PanicRecoveryGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "handler panic recovered",
					slog.Any("panic", r),
					slog.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
