// Package server wires configuration, storage, simulation, and the HTTP
// surface into one runnable service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	appevolution "github.com/courtside/franchise-sim/internal/app/evolution"
	appgames "github.com/courtside/franchise-sim/internal/app/games"
	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/config"
	"github.com/courtside/franchise-sim/internal/evolution"
	httpserver "github.com/courtside/franchise-sim/internal/http"
	"github.com/courtside/franchise-sim/internal/http/handlers"
	"github.com/courtside/franchise-sim/internal/league"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/metrics"
	"github.com/courtside/franchise-sim/internal/playbook"
	"github.com/courtside/franchise-sim/internal/saves"
	"github.com/courtside/franchise-sim/internal/store"
)

var metricsSetup = metrics.Setup

// Server owns the composed service components.
type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder
	store   store.SavedGameStore
	rosters *league.MemoryRosterStore
	clock   *league.Clock

	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New composes a server from configuration.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	savedGames, err := buildSavedGameStore(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := playbook.Load()
	if err != nil {
		return nil, fmt.Errorf("load play catalog: %w", err)
	}
	registry, err := badges.Load()
	if err != nil {
		return nil, fmt.Errorf("load badge registry: %w", err)
	}
	pipeline, err := evolution.New(registry, nil, logger)
	if err != nil {
		return nil, err
	}

	writer := saves.NewWriter(cfg.Saves.Dir, cfg.Saves.RetentionDays)
	gameSvc, err := appgames.NewService(savedGames, writer, catalog, registry, logger, recorder, appgames.Defaults{
		Difficulty:    cfg.Sim.Difficulty,
		AnimationData: cfg.Sim.AnimationData,
	})
	if err != nil {
		return nil, err
	}
	evoSvc, err := appevolution.NewService(pipeline, logger, recorder)
	if err != nil {
		return nil, err
	}

	rosters := league.NewMemoryRosterStore()
	var clock *league.Clock
	var statusFn func() league.Status
	if cfg.Rest.Enabled {
		clock = league.New(pipeline, rosters, logger, recorder, cfg.Rest.Interval)
		statusFn = clock.Status
	}

	handler := handlers.New(gameSvc, evoSvc, rosters, logger, statusFn)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	router := httpserver.NewRouter(handler, logger, recorder)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         savedGames,
		rosters:       rosters,
		clock:         clock,
		httpServer:    netHTTPServer{srv: srv},
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}, nil
}

func buildSavedGameStore(cfg config.Config) (store.SavedGameStore, error) {
	switch cfg.Saves.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.NewSQLiteStore(context.Background(), cfg.Saves.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.Saves.Backend)
	}
}

// Run starts the league clock and HTTP servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.clock != nil {
		s.clock.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}
	if s.clock != nil {
		if err := s.clock.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop league clock", err)
		}
	}
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}
	if err := s.store.Close(); err != nil {
		logging.Warn(s.logger, "store close failed", "error", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}
	return rec, metricsSrv, shutdown
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
