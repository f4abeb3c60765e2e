package middleware

import (
	"fmt"
	"net/http"

	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware converts panics into a JSON 500 response. The panic
// detail is only echoed back outside production.
func RecoveryMiddleware(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Stack("stack"))

				body := gin.H{
					"success": false,
					"error":   "Internal server error",
				}
				if !isProduction {
					body["detail"] = fmt.Sprint(r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()

		c.Next()
	}
}
