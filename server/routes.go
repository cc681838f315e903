package server

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/freightway/server/endpoint"
)

// RouteGroup is an independently defined set of routes for one domain
// resource. Groups are external collaborators; the gateway only mounts them
// under the versioned prefix and runs the uniform middleware around them.
type RouteGroup interface {
	// Name identifies the group in logs.
	Name() string
	// Register attaches the group's routes to the router.
	Register(r gin.IRouter)
}

// RouteGroupFunc adapts a function to the RouteGroup interface.
type RouteGroupFunc struct {
	GroupName string
	Routes    func(r gin.IRouter)
}

func (g RouteGroupFunc) Name() string           { return g.GroupName }
func (g RouteGroupFunc) Register(r gin.IRouter) { g.Routes(r) }

// RegisterDefaultEndpoints registers the standard /health, /info, and
// /metrics endpoints outside the API prefix.
func (s *Server) RegisterDefaultEndpoints(checks ...endpoint.Check) {
	s.engine.GET("/health", endpoint.Health(s.config.ServiceName, checks...))
	s.engine.GET("/info", endpoint.Info(s.config.ServiceName))
	s.engine.GET("/metrics", endpoint.Metrics())
}
