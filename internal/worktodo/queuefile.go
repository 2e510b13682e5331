package worktodo

import (
	"bufio"
	"fmt"
	"os"
)

// RemoveFirstProcessed pops the first non-empty line off the queue file and
// appends it to the archive file. The remaining lines, blank ones included,
// are streamed to a temporary file that atomically replaces the queue. It
// reports whether a line was found and archived.
//
// The operation is decoupled from parsing: a crash between a successful
// Parse and the matching call here re-delivers the same entry on the next
// run. Callers must serialize concurrent access externally; no locking is
// performed here.
func (p *Parser) RemoveFirstProcessed() (bool, error) {
	in, err := os.Open(p.path)
	if err != nil {
		return false, fmt.Errorf("open worktodo file: %w", err)
	}
	defer in.Close()

	archive, err := os.OpenFile(p.archivePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("open archive file: %w", err)
	}
	defer archive.Close()

	tmpPath := p.path + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return false, fmt.Errorf("open temp file: %w", err)
	}

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	writer := bufio.NewWriter(tmp)
	scanner := bufio.NewScanner(in)
	archived := false
	for scanner.Scan() {
		line := scanner.Text()
		if !archived && line != "" {
			archived = true
			if _, err := fmt.Fprintln(archive, line); err != nil {
				cleanup()
				return false, fmt.Errorf("append to archive: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			cleanup()
			return false, fmt.Errorf("write temp file: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		cleanup()
		return false, fmt.Errorf("read worktodo file: %w", err)
	}

	if err := writer.Flush(); err != nil {
		cleanup()
		return false, fmt.Errorf("flush temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := archive.Close(); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("close archive file: %w", err)
	}

	if err := os.Rename(tmpPath, p.path); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("replace worktodo file: %w", err)
	}

	if archived {
		p.logger.Info("archived worktodo line", "archive", p.archivePath)
	}
	return archived, nil
}
