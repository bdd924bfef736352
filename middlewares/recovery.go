package middlewares

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffeeshop-server/utils"
)

// Recovery turns a handler panic into the regular error envelope so the
// client still receives exactly one response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		utils.ErrorLogger.WithField("path", c.Request.URL.Path).Errorf("panic recovered: %v", recovered)
		utils.RespondError(c, fmt.Errorf("internal error: %v", recovered))
		c.Abort()
	})
}
