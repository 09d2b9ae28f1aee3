package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/courtside/franchise-sim/internal/config"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "franchise-sim",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logging.Error(logger, "server startup failed", err)
		os.Exit(1)
	}
	srv.Run(ctx, stop)
}
