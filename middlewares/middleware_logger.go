package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/coffeeshop-server/utils"
)

// RequestIDHeader carries the per-connection id assigned by the TCP server.
const RequestIDHeader = "X-Request-Id"

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		utils.InfoLogger.WithFields(logrus.Fields{
			"request_id": c.Request.Header.Get(RequestIDHeader),
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
		}).Info("handled request")
	}
}
