package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"smartschool/backend/pkg/metrics"
)

// Metrics 请求指标中间件
// path 取路由模板而非原始 URL，避免路径参数导致标签基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RequestTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.RequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
