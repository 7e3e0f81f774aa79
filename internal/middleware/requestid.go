package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

// RequestID tags every request with a uuid, echoes it back in the
// X-Request-ID header, and logs one structured line per request.
func RequestID(log *logger.Logger) gin.HandlerFunc {
	requestLog := log.With("middleware", "RequestID")
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		requestLog.Info("Request completed",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
