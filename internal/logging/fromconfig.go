package logging

import (
	"log/slog"

	"github.com/Artoria2e5/PrMers/internal/config"
)

// NewFromConfig creates a logger using application config defaults. Logs go
// to stderr, plus the data-directory log file when file logging is enabled.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	outputs := []string{"stderr"}
	if cfg.Logging.File {
		outputs = append(outputs, cfg.LogFilePath())
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}
