package main

import (
	"context"
	"os/signal"
	"syscall"

	"rolloff/config"
	"rolloff/di"
	"rolloff/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	if err := worker.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker stopped with error")
	}
}
