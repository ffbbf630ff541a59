package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const activeStateFile = ".active"

// Active returns the name of the last activated workspace, or "" when
// none has been recorded.
func (s *Store) Active() string {
	data, err := os.ReadFile(filepath.Join(s.dir, activeStateFile))
	if err != nil {
		return ""
	}
	name := strings.TrimSpace(string(data))
	if validateWorkspaceName(name) != nil {
		return ""
	}
	return name
}

// SetActive records name as the active workspace.
func (s *Store) SetActive(name string) error {
	if err := validateWorkspaceName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	path := filepath.Join(s.dir, activeStateFile)
	if err := os.WriteFile(path, []byte(name+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to record active workspace: %w", err)
	}
	return nil
}
