package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog writes one entry per request after it completes. Requests whose
// handler panics still get an entry, marked aborted, before the panic
// continues up the chain.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		completed := false

		defer func() {
			fields := []zap.Field{
				zap.String("request_id", GetRequestID(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if !completed {
				logger.Warn("http request", append(fields, zap.Bool("aborted", true))...)
				return
			}

			size := c.Writer.Size()
			if size < 0 {
				size = 0
			}
			logger.Info("http request", append(fields,
				zap.Int("status", c.Writer.Status()),
				zap.Int("bytes", size),
			)...)
		}()

		c.Next()
		completed = true
	}
}
