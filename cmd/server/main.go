package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oppdash/internal/app"
	"oppdash/internal/delivery"
	"oppdash/pkg/config"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("Starting server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	application, err := app.Build(ctx, cfg, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to build application")
	}

	handlers := delivery.NewHTTPHandlers(application.Dashboard, log, m)
	router := delivery.NewHTTPRouter(handlers, log, m, cfg.Server.RequestTimeout).SetupRoutes()

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()
	if err := application.Close(); err != nil {
		log.WithError(err).Warn("Failed to close credential store")
	}
	if runErr != nil {
		log.WithError(runErr).Error("Server stopped with error")
		os.Exit(1)
	}

	log.Info("Server stopped")
}
