package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"expensetracker/logging"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获 panic，记录堆栈并返回 500
func Recovery(log *slog.Logger) gin.HandlerFunc {
	log = logging.Component(log, logging.ComponentHTTP)
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			logging.FieldRequestID, GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", rec,
			"stack", string(debug.Stack()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "服务器内部错误",
		})
	})
}
