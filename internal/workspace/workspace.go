// Package workspace persists named bench layouts. Each workspace is a
// JSON file under ~/.config/benchtop/workspaces/ holding the widget
// list that seeds the surface when the workspace is activated.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WidgetEntry is one persisted widget placement.
type WidgetEntry struct {
	ID           string            `json:"id"`
	DefinitionID string            `json:"definition_id"`
	AnchorCell   int               `json:"anchor_cell"`
	Config       map[string]string `json:"config,omitempty"`
}

// WorkspaceConfig is the serialized form of one workspace.
type WorkspaceConfig struct {
	Name    string        `json:"name"`
	Widgets []WidgetEntry `json:"widgets"`
}

// DefaultDir returns the standard workspace directory.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "benchtop", "workspaces"), nil
}

func validateWorkspaceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("workspace name is required")
	}
	if strings.Contains(name, string(os.PathSeparator)) || name != filepath.Base(name) {
		return fmt.Errorf("invalid workspace name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid workspace name %q", name)
	}
	return nil
}

// ValidateWorkspaceName validates a workspace name (exported version).
func ValidateWorkspaceName(name string) error {
	return validateWorkspaceName(name)
}
