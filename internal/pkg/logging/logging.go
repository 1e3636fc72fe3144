// Package logging builds the process logger.
//
// Development uses colored output through tint; every other environment logs
// JSON with Elastic Common Schema keys so that request logs written by httplog
// and application logs share one shape.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/lmittmann/tint"
)

type Options struct {
	Env     string
	Level   string
	App     string
	Version string
}

// New returns a logger writing to w. It does not touch slog's default.
func New(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)

	var handler slog.Handler
	if opts.Env == "development" {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	} else {
		logFormat := httplog.SchemaECS.Concise(false)
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: logFormat.ReplaceAttr,
		})
	}

	return slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)
}

// ParseLevel maps debug, warn and error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
