// Package endpoint provides the gateway's standard operational endpoints.
package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Status values a Check may report.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Check reports the health of one subsystem, such as the discovery publisher.
type Check func() (name, status string)

// Health returns a handler that reports service health including the status
// of any registered checks. A degraded check lowers the overall status but
// keeps the HTTP code at 200 so load balancers do not pull the instance.
func Health(serviceName string, checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := StatusHealthy
		subsystems := gin.H{}

		for _, check := range checks {
			name, s := check()
			subsystems[name] = s
			if s != StatusHealthy {
				status = StatusDegraded
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"subsystems": subsystems,
		})
	}
}
