// Package middleware holds the gin middleware of the HTTP server.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"civic-writer-api/internal/interfaces/http/dto"
	"civic-writer-api/pkg/logger"
)

// Recovery turns a panic into a logged 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				dto.InternalError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
