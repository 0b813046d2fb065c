package main

import (
	"context"
	"os/signal"
	"syscall"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/internal/events"
	"innkeep/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := kafka.New(cfg)

	events.RunAdmissionConsumer(ctx, client, cfg)
}
