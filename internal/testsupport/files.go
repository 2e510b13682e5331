package testsupport

import (
	"os"
	"strings"
	"testing"

	"github.com/Artoria2e5/PrMers/internal/config"
)

// WriteWorktodo writes the given lines to the config's worktodo file.
func WriteWorktodo(t testing.TB, cfg *config.Config, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(cfg.Paths.WorktodoFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write worktodo file: %v", err)
	}
}

// ReadLines returns a file's lines without the trailing newline.
func ReadLines(t testing.TB, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
