package middleware

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/interfaces/http/dto"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/logger"
)

// Recovery 捕获 panic，记录堆栈并返回不含内部细节的 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error(c.Request.Context(), "panic recovered",
			fmt.Errorf("%v", recovered),
			"route", c.FullPath(),
			"method", c.Request.Method,
			"user_id", c.GetString("user_id"),
			"stack", string(debug.Stack()),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		dto.AppError(c, apperrors.ErrInternalError)
	})
}
