package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillsenselab/freightway/logger"
)

// HeaderRequestID is the correlation header the gateway accepts and returns.
const HeaderRequestID = "X-Request-Id"

type requestIDKey struct{}

// RequestID assigns every request a correlation ID: an inbound X-Request-Id
// is trusted, otherwise one is generated. The ID is stored under the
// request-ID logging key, placed in the request context for spans and
// downstream calls, and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(logger.FieldRequestID, id)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), requestIDKey{}, id),
		)
		c.Header(HeaderRequestID, id)

		c.Next()
	}
}

// RequestIDFromContext returns the correlation ID stored by RequestID, or ""
// when the request did not pass through it.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
