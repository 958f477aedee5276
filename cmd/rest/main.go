package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"consultation-be/internal/bootstrap"
	"consultation-be/internal/config"
	"consultation-be/internal/server"
	"consultation-be/internal/tracer"

	"golang.org/x/sync/errgroup"
)

const (
	reconcileTimeout = 2 * time.Minute
	shutdownTimeout  = 10 * time.Second
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint)
	defer shutdownTracer(context.Background())

	// 2. Initialize database
	gormDB, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Repair approved engagements left without a channel
	if cfg.Domain.ReconcileOnStartup {
		reconcile(ctx, container)
	}

	// 5. Background workers and server
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})

	if err := container.Dispatcher.Consume(gctx); err != nil {
		log.Printf("[WARN] Email dispatcher not started: %v", err)
	}
	container.EventRelay.Start()

	srv := server.New(cfg, container)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

func reconcile(ctx context.Context, container *bootstrap.Container) {
	ctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()

	created, err := container.ChannelService.ReconcileAll(ctx)
	if err != nil {
		log.Printf("[WARN] Channel reconciliation incomplete: %v", err)
	}
	log.Printf("[INFO] Channel reconciliation created %d channel(s)", created)
}
