package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/Artoria2e5/PrMers/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorktodoFile = filepath.Join(base, "worktodo.txt")
	cfg.Paths.ArchiveFile = filepath.Join(base, "worktodo_save.txt")
	cfg.Paths.DataDir = filepath.Join(base, "data")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithPRPBases overrides the supported PRP base set.
func WithPRPBases(bases ...int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Worktodo.PRPBases = bases
	}
}
