package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apierrors "github.com/skillsenselab/freightway/errors"
	"github.com/skillsenselab/freightway/logger"
)

// BadRequestBody is the fixed response for dispatch-level bad requests. It is
// the same regardless of Accept, since a malformed request is not actionable
// as an app-shell navigation.
var BadRequestBody = apierrors.ResponseBody{
	Code:    http.StatusBadRequest,
	Message: "Bad request.",
}

// ErrorInterceptor guarantees every response leaving the service is either a
// handler's own response or a well-formed JSON error body. It recovers
// panics, drains errors attached to the Gin context, classifies them through
// the taxonomy, and logs each failure before the response is built.
func ErrorInterceptor(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("interceptor")
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				apiErr := apierrors.Classify(err)
				logFailure(log, c, apiErr, string(debug.Stack()))
				writeError(c, apiErr)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		// Dispatch-level bad request: fixed body, no taxonomy.
		if stderrors.Is(err, apierrors.ErrMalformedRequest) {
			logFailure(log, c, apierrors.Validation(BadRequestBody.Message).WithDetails(err.Error()), "")
			if !c.Writer.Written() {
				c.JSON(http.StatusBadRequest, BadRequestBody)
			}
			c.Abort()
			return
		}

		apiErr := apierrors.Classify(err)
		logFailure(log, c, apiErr, "")
		writeError(c, apiErr)
	}
}

// logFailure logs before any response construction, unconditionally.
func logFailure(log *logger.Logger, c *gin.Context, apiErr *apierrors.APIError, stack string) {
	fields := logger.Fields(
		"kind", string(apiErr.Kind),
		"status", apiErr.StatusCode,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	if apiErr.InternalDetails != "" {
		fields["internal_details"] = apiErr.InternalDetails
	}
	if stack != "" {
		fields["stack"] = stack
	}
	log.Error(apiErr.Message, fields)
}

func writeError(c *gin.Context, apiErr *apierrors.APIError) {
	if !c.Writer.Written() {
		c.JSON(apiErr.StatusCode, apiErr.ToResponse())
	}
	c.Abort()
}
