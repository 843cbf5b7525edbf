// Package observability builds the structured logger used by the demo
// binary.
package observability

import (
	"log/slog"
	"os"

	"github.com/earthwave/cryotempo-analysis/internal/config"
)

// NewLogger returns a slog.Logger honouring the configured level and
// format. Unknown levels fall back to info, unknown formats to text.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
