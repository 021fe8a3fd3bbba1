package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nedgladstone/cardball/internal/platform/ctxutil"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

// resourceKeys names the :id param by the route's first segment.
var resourceKeys = map[string]string{
	"game":   "game_id",
	"team":   "team_id",
	"player": "player_id",
}

// RequestLogger writes one line per request once the handler chain returns.
// 5xx log at error, 4xx at warn.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := append(ctxutil.LogFields(c.Request.Context()),
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		fields = append(fields, routeParams(c, route)...)
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func routeParams(c *gin.Context, route string) []interface{} {
	var out []interface{}
	if id := c.Param("id"); id != "" {
		first, _, _ := strings.Cut(strings.TrimPrefix(route, "/"), "/")
		key, ok := resourceKeys[first]
		if !ok {
			key = "resource_id"
		}
		out = append(out, key, id)
	}
	if side := c.Param("side"); side != "" {
		out = append(out, "side", side)
	}
	if role := c.Param("role"); role != "" {
		out = append(out, "role", role)
	}
	return out
}
