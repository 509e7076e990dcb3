package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"renalert/internal/config"
	"renalert/internal/logger"
	"renalert/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.LogLevel)

	srv, err := server.New(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize server")
	}

	if err := srv.Run(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server exited with error")
	}
}
