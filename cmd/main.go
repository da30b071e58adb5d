package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwise1/travel_planner_api/config"
	deps "github.com/bwise1/travel_planner_api/internal/debs"
	api "github.com/bwise1/travel_planner_api/internal/http/rest"
	"github.com/bwise1/travel_planner_api/util/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dependencies, err := deps.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise dependencies", zap.Error(err))
	}
	if err := dependencies.DB.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	a := &api.API{
		Config: cfg,
		Deps:   dependencies,
		Log:    logger,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dependencies.WebSocket.Run(gctx)
	})
	g.Go(func() error {
		if err := a.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", zap.Duration("grace", allowConnectionsAfterShutdown))
		time.Sleep(allowConnectionsAfterShutdown)
		return a.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dependencies.Close(closeCtx); err != nil {
		logger.Error("failed to close database", zap.Error(err))
	}
	logger.Info("server stopped")
}
