package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alex-user-go/travel/internal/obs"
)

// Metrics records the duration of every request by route template.
func Metrics(m *obs.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start).Seconds())
	}
}
