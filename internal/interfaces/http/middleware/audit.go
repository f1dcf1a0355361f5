package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quilkalam-api/pkg/logger"
)

// Audit 记录写操作请求的审计日志
func Audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.Info(c.Request.Context(), "api audit",
			"method", c.Request.Method,
			"path", path,
			"project_id", c.Param("pid"),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"user_id", c.GetString("user_id"),
		)
	}
}
