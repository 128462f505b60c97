package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New builds the process logger. Local development gets colorized output,
// everything else gets JSON.
func New(app string) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_DEBUG") != "" {
		level = slog.LevelDebug
	}

	if os.Getenv("APP_ENV") == "development" {
		h := tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", app)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("app", app)
}
