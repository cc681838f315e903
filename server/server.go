// Package server assembles the gateway's HTTP surface: the Gin engine, the
// middleware chain with the error interceptor, resource route groups under
// the versioned API prefix, and the static app shell for everything else.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apierrors "github.com/skillsenselab/freightway/errors"
	"github.com/skillsenselab/freightway/logger"
	"github.com/skillsenselab/freightway/observability"
	"github.com/skillsenselab/freightway/server/middleware"
)

// Server is the gateway HTTP server backed by Gin, serving h2c so HTTP/2
// clients work without TLS termination here.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	metrics    *observability.GatewayMetrics
}

// New creates a Server with the standard middleware chain applied and the
// 404/app-shell fallback wired. Route groups are mounted separately.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if cfg.CORS == nil {
		cfg.CORS = middleware.DefaultCORSConfig()
	}

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	// CORS sits outside the engine so the policy covers every response the
	// process emits, router misses and translated errors included.
	outer := middleware.Chain(middleware.CORS(cfg.CORS))(engine)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      h2c.NewHandler(outer, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	s := &Server{
		httpServer: httpServer,
		engine:     engine,
		config:     cfg,
		log:        log.WithComponent("server"),
	}

	metrics, err := observability.NewGatewayMetrics(observability.Meter(cfg.ServiceName))
	if err != nil {
		s.log.Warn("gateway metrics unavailable", logger.Fields("error", err.Error()))
		metrics = nil
	}
	s.metrics = metrics

	s.applyMiddleware()
	s.registerFallbacks()
	return s
}

// Engine returns the underlying Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the full handler as served on the wire, with the
// outer-chain middleware and h2c wrapping applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// applyMiddleware installs the uniform engine chain. The interceptor sits
// outside everything but metrics so no failure escapes untranslated; CORS
// runs outside the engine entirely.
func (s *Server) applyMiddleware() {
	s.engine.Use(middleware.Metrics(s.metrics))
	s.engine.Use(middleware.ErrorInterceptor(s.log))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Tracing(s.config.ServiceName))
	s.engine.Use(middleware.RequestLogger(s.log))
}

// MountGroups registers resource route groups under the API prefix with the
// auth-context middleware in front of every handler.
func (s *Server) MountGroups(groups ...RouteGroup) {
	api := s.engine.Group(s.config.APIPrefix)
	api.Use(middleware.AuthContext(s.config.AuthSecret))
	for _, g := range groups {
		g.Register(api)
		s.log.Debug("route group mounted", logger.Fields(
			"group", g.Name(),
			"prefix", s.config.APIPrefix,
		))
	}
}

// registerFallbacks wires the app shell and the non-uniform 404 branch.
func (s *Server) registerFallbacks() {
	indexPath := filepath.Join(s.config.StaticDir, "index.html")

	s.engine.GET("/", func(c *gin.Context) {
		c.File(indexPath)
	})

	// Unmatched routes: JSON clients get a structured 404; document clients
	// get the app shell so SPA deep links resolve.
	s.engine.NoRoute(func(c *gin.Context) {
		s.log.Warn("route not found", logger.Fields(
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		))
		if WantsJSON(c.Request) {
			c.JSON(http.StatusNotFound, apierrors.ResponseBody{
				Code:    http.StatusNotFound,
				Message: "Resource not found.",
			})
			return
		}
		if _, err := os.Stat(indexPath); err == nil {
			c.File(indexPath)
			return
		}
		c.Status(http.StatusNotFound)
	})

	// Static assets under /static resolve from the UI bundle.
	if s.config.StaticDir != "" {
		s.engine.Static("/static", s.config.StaticDir)
	}
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.Fields("error", err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", s.httpServer.Addr))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
