package middleware

import (
	"time"

	"club-hours/internal/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one line per request. Health checks log at debug.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"ms", time.Since(start).Milliseconds(),
			"ip", ClientIP(c.Request),
		}
		if id := MemberID(c); id != "" {
			args = append(args, "member", id)
		}
		if c.FullPath() == "/api/health" {
			logger.Debug("http.request", args...)
			return
		}
		logger.Info("http.request", args...)
	}
}
