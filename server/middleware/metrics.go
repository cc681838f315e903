package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/skillsenselab/freightway/errors"
	"github.com/skillsenselab/freightway/observability"
)

// Metrics records per-request gateway metrics. A nil metrics set disables
// recording without changing the chain shape.
func Metrics(m *observability.GatewayMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))

		if err := c.Errors.Last(); err != nil {
			if apiErr, ok := apierrors.AsAPIError(err.Err); ok {
				m.RecordError(ctx, string(apiErr.Kind))
			}
		}
	}
}
