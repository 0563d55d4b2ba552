package middleware

import (
	"time"

	"expensetracker/metrics"

	"github.com/gin-gonic/gin"
)

// Prometheus 记录请求耗时和计数，优先使用路由模板作为 path 标签
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start).Seconds())
	}
}
