package config

const (
	defaultWorktodoFile = "worktodo.txt"
	defaultDataDir      = "~/.local/share/prmers"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorktodoFile: defaultWorktodoFile,
			DataDir:      defaultDataDir,
		},
		Worktodo: Worktodo{
			// Only base-3 PRP residues are implemented by the compute
			// engine today.
			PRPBases: []int{3},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
