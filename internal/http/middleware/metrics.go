package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nedgladstone/cardball/internal/observability"
)

// Metrics records request counts and latency per route. Routes listed in streaming
// (e.g. SSE feeds) are counted as in flight but never timed.
func Metrics(m *observability.Metrics, streaming ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	untimed := make(map[string]bool, len(streaming))
	for _, r := range streaming {
		untimed[r] = true
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		if untimed[route] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
