// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile is the log path used when the file sink has no explicit path.
func DefaultFile() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("logging: cache dir: %w", err)
	}
	return filepath.Join(dir, "ticketdash", "ticketdash.log"), nil
}

// Init merges cfg over the defaults, applies the environment, installs the
// resulting logger as slog's default and returns a function that closes the
// sink.
func Init(cfg Config, version string) (func() error, error) {
	merged, err := DefaultConfig().Merge(cfg).WithEnv().Normalize()
	if err != nil {
		return nil, err
	}
	logger, closeFn, err := build(merged)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.With(slog.String("app", "ticketdash"), slog.String("version", version)))
	return closeFn, nil
}

func build(cfg Config) (*slog.Logger, func() error, error) {
	sink := SinkFile
	if cfg.Sink != nil {
		sink = Sink(*cfg.Sink)
	}
	w, closeFn, err := resolveWriter(cfg, sink)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var h slog.Handler
	if cfg.Format != nil && Format(*cfg.Format) == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), closeFn, nil
}

func parseLevel(value *string) slog.Leveler {
	if value == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(*value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(cfg Config, sink Sink) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch sink {
	case SinkNone:
		return io.Discard, noop, nil
	case SinkStderr:
		return os.Stderr, noop, nil
	case SinkFile:
		path := ""
		if cfg.File != nil {
			path = *cfg.File
		}
		if path == "" {
			p, err := DefaultFile()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    derefInt(cfg.MaxSizeMB, 10),
			MaxBackups: derefInt(cfg.MaxBackups, 3),
			Compress:   true,
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", sink)
	}
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
