package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"furnicost/pkg/logger"
)

// Logger middleware attaches a request-scoped logger to the context and logs
// every request with timing and status.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		ctx := logger.WithLogger(c.Request.Context(), log)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"operator", c.GetString(OperatorKey),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
