package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the queue, archive, and data directory locations.
type Paths struct {
	// WorktodoFile is the work-assignment queue consumed by the client.
	WorktodoFile string `toml:"worktodo_file"`
	// ArchiveFile receives consumed lines; defaults to worktodo_save.txt
	// next to the worktodo file.
	ArchiveFile string `toml:"archive_file"`
	// DataDir holds the history database and the default log file.
	DataDir string `toml:"data_dir"`
}

// Worktodo contains validation policy for parsed assignments.
type Worktodo struct {
	// PRPBases lists the PRP bases the compute engine supports.
	PRPBases []int `toml:"prp_bases"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File appends logs to data_dir/prmers.log when true.
	File bool `toml:"file"`
}

// Config encapsulates all configuration values for the PrMers CLI.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Worktodo Worktodo `toml:"worktodo"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/prmers/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("prmers.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data directory required for operation.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.DataDir, err)
	}
	return nil
}

// PRPBases returns the supported PRP bases for the parser policy.
func (c *Config) PRPBases() []uint32 {
	bases := make([]uint32, 0, len(c.Worktodo.PRPBases))
	for _, base := range c.Worktodo.PRPBases {
		bases = append(bases, uint32(base))
	}
	return bases
}

// LockFile returns the path of the lock file guarding queue mutation.
func (c *Config) LockFile() string {
	return c.Paths.WorktodoFile + ".lock"
}

// HistoryDBPath returns the SQLite database recording consumed assignments.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// LogFilePath returns the log file used when file logging is enabled.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.DataDir, "prmers.log")
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.WorktodoFile, err = expandPath(strings.TrimSpace(c.Paths.WorktodoFile)); err != nil {
		return err
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return err
	}
	archive := strings.TrimSpace(c.Paths.ArchiveFile)
	if archive == "" && c.Paths.WorktodoFile != "" {
		archive = filepath.Join(filepath.Dir(c.Paths.WorktodoFile), "worktodo_save.txt")
	}
	if c.Paths.ArchiveFile, err = expandPath(archive); err != nil {
		return err
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.WorktodoFile) == "" {
		return errors.New("paths.worktodo_file must not be empty")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must not be empty")
	}
	if len(c.Worktodo.PRPBases) == 0 {
		return errors.New("worktodo.prp_bases must list at least one base")
	}
	for _, base := range c.Worktodo.PRPBases {
		if base < 2 {
			return fmt.Errorf("worktodo.prp_bases: base %d is invalid (minimum 2)", base)
		}
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
