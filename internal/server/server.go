package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weathernow/internal/config"
	"github.com/vzahanych/weathernow/internal/lookup"
	"github.com/vzahanych/weathernow/internal/server/handlers"
	"github.com/vzahanych/weathernow/internal/server/middlewares"
	"github.com/vzahanych/weathernow/pkg/telemetry"
	"go.uber.org/zap"
)

// Server exposes the lookup service over HTTP.
type Server struct {
	cfg     config.ServerConfig
	engine  *gin.Engine
	server  *http.Server
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	version string
}

// NewServer wires middlewares and routes. The server's metrics handler is
// registered as svc's metrics recorder.
func NewServer(cfg config.ServerConfig, version string, svc *lookup.Service, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware(logger)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	metricsHandler := handlers.NewMetricsHandler(logger, httpMetrics)
	svc.SetMetricsRecorder(metricsHandler)

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		logger:  logger,
		tele:    tele,
		version: version,
	}
	s.setupRoutes(svc, metricsHandler)

	s.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(svc *lookup.Service, metrics *handlers.MetricsHandler) {
	s.engine.GET("/weather", handlers.NewWeatherHandler(svc, s.logger).GetWeather)

	health := handlers.NewHealthHandler(s.logger, s.version)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	s.engine.GET("/metrics", metrics.ServeMetrics)
}

// Handler returns the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Start blocks serving requests. It returns nil after a clean Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
