package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gitlab.com/gitlab-org/labkit/v2/log"

	"gitlab.com/gitlab-org/correlation-vector/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func logConfig(cfg *config.Config) *log.Config {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	return &log.Config{
		UseTextFormat: cfg.LogFormat == "text",
		LogLevel:      &level,
	}
}

// ConfigureLogger builds the process logger from cfg with labkit and installs it as the slog
// default. An empty LogFile logs to standard error. When LogFile cannot be opened the logger
// falls back to standard error and the error is returned alongside it; the returned closer is
// then nil.
func ConfigureLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		logger := log.NewWithConfig(logConfig(cfg))
		slog.SetDefault(logger)
		return logger, nopCloser{}, nil
	}

	logger, closer, err := log.NewWithFile(cfg.LogFile, logConfig(cfg))
	if err != nil {
		progName, _ := os.Executable()
		fmt.Fprintf(os.Stderr, "%s: failed to configure log file %s: %v\n", filepath.Base(progName), cfg.LogFile, err)
	}

	slog.SetDefault(logger)
	return logger, closer, err
}
