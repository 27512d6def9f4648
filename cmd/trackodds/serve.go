package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/trackodds/internal/health"
	"github.com/yourusername/trackodds/internal/service"
	"github.com/yourusername/trackodds/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLog.WithFields(logrus.Fields{
		"environment":  cfg.App.Environment,
		"log_level":    cfg.App.LogLevel,
		"store_driver": cfg.Store.Driver,
		"version":      Version,
	}).Info("TrackOdds starting")

	backend, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	svc := service.NewDataService(backend.Repos, service.OptionsFromConfig(cfg), appLog)

	hs := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		StoreDriver: backend.Driver,
		Logger:      appLog,
		Store:       backend.Repos.Schema,
	})

	srv, err := web.NewServer(svc, cfg, hs, appLog)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  cfg.Server.IdleTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	hs.SetReady(true)

	select {
	case err := <-errCh:
		if err != nil {
			appLog.WithError(err).Error("HTTP server failed")
			return err
		}
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	}

	hs.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during HTTP server shutdown")
		return err
	}

	appLog.Info("TrackOdds shut down successfully")
	return nil
}
