package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bestronggym/gym-desk/internal/app"
	"bestronggym/gym-desk/internal/config"
	"bestronggym/gym-desk/internal/logger"

	"golang.org/x/exp/slog"
)

// @title Be Strong Gym Desk API
// @version 1.0
// @description Front-desk API for registering clients and publishing memberships.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	log.Info("starting gym desk server", slog.String("env", cfg.Env))

	// --- Stores and services ---
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	application, err := app.Build(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("could not build application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		log.Info("closing slot backend")
		if err := application.Close(context.Background()); err != nil {
			log.Error("failed to close slot backend", slog.String("error", err.Error()))
		}
	}()

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      application.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("server starting", slog.String("address", cfg.Server.Address))

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("listen failed", slog.String("error", err.Error()))
		return
	}
	log.Info("shutting down server")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", slog.String("error", err.Error()))
		return
	}

	log.Info("server exiting")
}
