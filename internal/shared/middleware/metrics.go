package middleware

import (
	"time"

	"clubsite-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per matched route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
