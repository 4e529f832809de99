package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rocketscienceinc/tictactoe/internal/config"
)

// newLogger - JSON logs go to a file so they never mix with the game on the terminal.
func newLogger(conf *config.Config) (*slog.Logger, io.Closer, error) {
	path, err := conf.GetLogFile()
	if err != nil {
		return nil, nil, err
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: logLevel(conf.LogLevel)}))

	return logger, file, nil
}

func logLevel(name string) slog.Level {
	switch name {
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
