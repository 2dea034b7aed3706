package internal

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the JSON logger. The returned LevelVar lets a config
// reload change the level in place.
func newLogger(cfg ApplicationConfig, console io.Writer) (*slog.Logger, *slog.LevelVar, io.Closer) {
	if console == nil {
		console = os.Stdout
	}

	level := new(slog.LevelVar)
	level.Set(cfg.LogLevel)

	var out io.Writer = console
	var closer io.Closer = nopCloser{}
	if cfg.LogFile.Path != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile.Path,
			MaxSize:    cfg.LogFile.MaxSizeMB,
			MaxBackups: cfg.LogFile.MaxBackups,
			MaxAge:     cfg.LogFile.MaxAgeDays,
			Compress:   cfg.LogFile.Compress,
		}
		out = io.MultiWriter(console, file)
		closer = file
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, level, closer
}
