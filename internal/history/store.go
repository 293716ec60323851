// Package history implements the persistent command history for hostline:
// an ordered in-memory log backed by a plain-text file, with support for
// history-expansion syntax (!!, !N, !-N, !prefix, !?substr?, ^old^new).
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"hostline/internal/logger"
)

// Store holds the ordered history log for one session. The in-memory
// sequence reflects the backing file as of the most recent Load; Save is the
// only operation that persists mutations. Concurrent sessions racing on the
// same file are not synchronized here (last save wins).
type Store struct {
	entries []string
	logger  *log.Logger
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{
		logger: logger.NewStyledLogger("History"),
	}
}

// Load replaces the in-memory entries with the contents of the file at
// path. A missing file yields an empty store, not an error.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = nil
			return nil
		}
		s.entries = nil
		return fmt.Errorf("failed to read history file: %w", err)
	}

	s.entries = nil
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			s.entries = append(s.entries, line)
		}
	}

	s.logger.Debug("History loaded", "path", path, "entries", len(s.entries))
	return nil
}

// Add appends line verbatim to the in-memory sequence. Nothing is persisted
// until Save is called.
func (s *Store) Add(line string) {
	s.entries = append(s.entries, line)
}

// Save writes the current in-memory sequence to path, fully overwriting
// prior contents. The write is atomic: content goes to a temporary file in
// the same directory which is then renamed over the target.
func (s *Store) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("failed to create history temp file: %w", err)
	}
	tmpName := tmp.Name()

	var sb strings.Builder
	for _, entry := range s.entries {
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}

	if _, err := tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close history temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	s.logger.Debug("History saved", "path", path, "entries", len(s.entries))
	return nil
}

// Entries returns a copy of the in-memory sequence.
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries currently held in memory.
func (s *Store) Len() int {
	return len(s.entries)
}
