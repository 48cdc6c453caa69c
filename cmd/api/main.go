package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fillai-backend/infrastructure/config"
	"fillai-backend/interfaces/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(config.Dir(), config.CurrentEnvironment())
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := server.Run(ctx, cfg, loader); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
