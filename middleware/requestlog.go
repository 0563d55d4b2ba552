package middleware

import (
	"log/slog"
	"time"

	"expensetracker/logging"

	"github.com/gin-gonic/gin"
)

// RequestLog 记录每个请求的方法、路径、状态码和耗时
// 需放在 RequestID 和 SessionAuth 之后
func RequestLog(log *slog.Logger) gin.HandlerFunc {
	log = logging.Component(log, logging.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			logging.FieldRequestID, GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"size", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			attrs = append(attrs, logging.FieldUserID, user.ID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, logging.FieldError, c.Errors.String())
		}
		log.Log(c.Request.Context(), level, "request", attrs...)
	}
}
