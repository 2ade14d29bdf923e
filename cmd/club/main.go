package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/BrasserTech/handluz/internal/client/cli"
	"github.com/BrasserTech/handluz/internal/client/config"
	"github.com/BrasserTech/handluz/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
