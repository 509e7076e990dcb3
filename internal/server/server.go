package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"renalert/internal/config"
	"renalert/internal/engine"
	"renalert/internal/logger"
	"renalert/internal/notify"
	"renalert/internal/storage"
)

// Server wires storage, the alert engine, the notifier and the HTTP
// transport together.
type Server struct {
	cfg      *config.Config
	echo     *echo.Echo
	store    *storage.Postgres
	engine   *engine.Engine
	notifier notify.Notifier
}

// New connects to the database, applies migrations, seeds the default
// thresholds and builds the HTTP server.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	log := logger.WithComponent("server")

	store, err := storage.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	log.Info().Msg("database connected, schema applied")

	var notifier notify.Notifier = notify.Noop{}
	if cfg.NotifyEnabled() {
		kn, err := notify.NewKafkaNotifier(notify.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create kafka notifier: %w", err)
		}
		notifier = kn
		log.Info().
			Strs("brokers", cfg.KafkaBrokers).
			Str("topic", cfg.KafkaTopic).
			Msg("kafka notifier enabled")
	}

	eng := engine.New(store, store, store, notifier)

	// Bootstrap seeding, decoupled from the request path. The engine
	// keeps a defensive check per evaluation pass.
	if err := eng.SeedDefaultThresholds(ctx); err != nil {
		notifier.Close()
		store.Close()
		return nil, fmt.Errorf("seed default thresholds: %w", err)
	}

	if cfg.SeedDemo {
		if err := storage.SeedDemoData(ctx, store); err != nil {
			log.Error().Err(err).Msg("demo data seeding failed")
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(Recovery())
	e.Use(RequestLogger())

	NewHandler(store, eng).RegisterRoutes(e)

	return &Server{
		cfg:      cfg,
		echo:     e,
		store:    store,
		engine:   eng,
		notifier: notifier,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.WithComponent("server")

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+s.cfg.Port).Msg("starting HTTP server")
		if err := s.echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.close(log)
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	s.close(log)
	log.Info().Msg("server stopped")
	return nil
}

func (s *Server) close(log zerolog.Logger) {
	if err := s.notifier.Close(); err != nil {
		log.Error().Err(err).Msg("notifier close error")
	}
	s.store.Close()
}
