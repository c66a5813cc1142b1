// Package logger builds the application's structured logger.
package logger

import (
	"io"
	"os"

	"bestronggym/gym-desk/internal/config"

	"golang.org/x/exp/slog"
)

// New returns a logger for env. Local runs get readable text output, dev and
// prod emit JSON; only prod drops debug records.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return setupPrettySlog()
	}
}

func setupPrettySlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
}

// Discard returns a logger that drops everything. Tests and the CLI's quiet
// mode use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
