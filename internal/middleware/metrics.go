package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/matricula-admin/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route template. Static
// assets and the metrics endpoint itself are not observed; requests that
// match no route share one label.
func Metrics(metricsSvc *service.MetricsService, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || skipped(c.Request.URL.Path, skipPrefixes) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func skipped(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
