package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// slowThreshold marks playback queries worth logging despite their rate.
const slowThreshold = 100 * time.Millisecond

// Logger logs HTTP requests. The per-frame playback queries arrive at
// animation rate, so they are only logged when they fail or run slow;
// everything else is logged unconditionally.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if perFramePath(path) && status < 400 && latency < slowThreshold {
			return
		}

		if raw != "" {
			path = path + "?" + raw
		}

		log.Printf("[%s] %s %s %d %v %s",
			c.Request.Method,
			path,
			c.ClientIP(),
			status,
			latency,
			c.Errors.String(),
		)
	}
}

// perFramePath reports whether the route is queried once per animation
// frame by the renderer.
func perFramePath(path string) bool {
	return strings.HasSuffix(path, "/journey/state") ||
		strings.HasSuffix(path, "/journey/completed")
}
