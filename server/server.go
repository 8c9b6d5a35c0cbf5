package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/quantfold/finkit/component"
	"github.com/quantfold/finkit/config"
	"github.com/quantfold/finkit/logger"
	"github.com/quantfold/finkit/server/middleware"
)

// Server is the HTTP surface, backed by Gin behind an h2c handler so
// HTTP/2 cleartext clients work without TLS termination in front.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	cfg        config.ServerConfig
	log        *logger.Logger
}

var _ component.Component = (*Server)(nil)

// New creates a Server with the standard middleware stack applied. Routes
// are registered separately via Routes.Register.
func New(cfg config.ServerConfig) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.CORSOrigins))
	engine.Use(middleware.RequestLogger())

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(engine, h2s),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		cfg:        cfg,
		log:        logger.Get("server"),
	}
}

// Engine returns the underlying Gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Name implements component.Component.
func (s *Server) Name() string { return "server" }

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a
// goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", map[string]interface{}{
				logger.FieldError: err.Error(),
			})
		}
	}()

	s.log.Info("http server started", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Health implements component.Component.
func (s *Server) Health(ctx context.Context) component.Health {
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}
