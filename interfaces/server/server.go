// Package server runs the long-lived HTTP process: the REST API, the
// websocket hub, the physics loop and the configuration watcher.
package server

import (
	"context"
	"errors"
	"net/http"

	"fillai-backend/application/commands"
	domainconfig "fillai-backend/domain/config"
	"fillai-backend/infrastructure/config"
	"fillai-backend/infrastructure/di"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run builds the container from cfg and serves until ctx is cancelled. When
// loader is non-nil and the environment is development, edits to the
// configuration files are applied while running.
func Run(ctx context.Context, cfg *config.Config, loader *config.Loader) error {
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := container.Logger
	defer func() { _ = logger.Sync() }()

	if err := container.State.Load(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      container.Router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return container.Hub.Run(gctx) })
	g.Go(func() error { return container.Simulation.Run(gctx) })

	if loader != nil {
		watcher := config.NewConfigWatcher(loader, cfg, logger)
		mode := cfg.Layout.Mode
		watcher.OnChange(func(next *config.Config) {
			mode = applyConfig(gctx, container, mode, next)
		})
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.String("environment", string(cfg.Environment)),
			zap.Strings("config", cfg.LoadedFrom),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := container.State.SaveLayout(shutdownCtx); err != nil {
			logger.Warn("Failed to save layout on shutdown", zap.Error(err))
		}
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("Server stopped")
	return err
}

// applyConfig pushes the hot-reloadable settings into the running services
// and returns the layout mode now in effect. Layout geometry and the
// listener settings need a restart.
func applyConfig(ctx context.Context, c *di.Container, mode domainconfig.LayoutMode, next *config.Config) domainconfig.LayoutMode {
	c.Simulation.UpdatePhysics(next.Physics)
	c.Simulation.SetFrameInterval(next.Layout.FrameInterval)

	if next.Layout.Mode == mode {
		return mode
	}
	if err := c.CommandBus.Send(ctx, commands.SetLayoutModeCommand{Mode: next.Layout.Mode}); err != nil {
		c.Logger.Warn("Failed to apply layout mode", zap.Error(err))
		return mode
	}
	return next.Layout.Mode
}
