package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/skillsenselab/freightway/errors"
)

// RespondWithError attaches err to the context for the interceptor to
// translate. Handlers use this instead of writing error bodies themselves so
// every failure goes through one classification path.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// RespondOK sends a 200 response with the given payload.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 response with the given payload.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BindJSON decodes the request body into v, reporting malformed bodies as a
// dispatch-level bad request (fixed 400 body) rather than a taxonomy error.
func BindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		RespondWithError(c, apierrors.ErrMalformedRequest)
		return false
	}
	return true
}
