package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/metrics"
)

// LoggerMiddleware logs HTTP requests using the structured logger and
// records their latency
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.APILatency.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Observe(latency.Seconds())

		if raw != "" {
			path = path + "?" + raw
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP())
	}
}
