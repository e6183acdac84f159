package logging

import (
	"log/slog"
	"os"
	"path/filepath"

	"qrsafe/internal/config"
)

// NewFromConfig creates a logger using application config defaults. Output
// goes to stdout plus the configured log file when a log directory is set.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", OutputPaths: []string{"stdout"}})
	}

	paths := []string{"stdout"}
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err == nil {
			paths = append(paths, filepath.Join(cfg.Paths.LogDir, "qrsafe.log"))
		}
	}

	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
}
