package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"consultation-be/internal/bootstrap"
	"consultation-be/internal/config"
)

// Runs the same channel reconciliation cmd/rest performs at boot, then exits.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg := config.Load()
	if cfg.Database.Driver == config.StorageDriverMemory {
		return errors.New("reconciliation needs persistent storage, STORAGE_DRIVER is memory")
	}

	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		return err
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	created, err := container.ChannelService.ReconcileAll(ctx)
	log.Printf("Reconciliation created %d channel(s)", created)
	return err
}
