// Package config holds the benchtop configuration: grid dimensions,
// gesture thresholds, widget catalog extensions, and the serve/IPC
// settings, loaded from ~/.config/benchtop/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benchtop-sh/benchtop/internal/catalog"
	"github.com/benchtop-sh/benchtop/internal/gesture"
	"github.com/benchtop-sh/benchtop/internal/grid"
)

// GridConfig defines the bench surface dimensions.
type GridConfig struct {
	Columns    int `yaml:"columns"`
	Rows       int `yaml:"rows"`
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	Gap        int `yaml:"gap"`
}

// InteractionConfig tunes gesture classification and edit mode.
type InteractionConfig struct {
	LongPressMS     int `yaml:"long_press_ms"`
	DoubleClickMS   int `yaml:"double_click_ms"`
	MoveTolerancePX int `yaml:"move_tolerance_px"`
	// EditTimeoutSeconds exits edit mode after this much idle time.
	// 0 disables the timeout.
	EditTimeoutSeconds int `yaml:"edit_timeout_seconds"`
}

// HTTPConfig configures the lab backend server.
type HTTPConfig struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Grid             GridConfig           `yaml:"grid"`
	Interaction      InteractionConfig    `yaml:"interaction"`
	DefaultWorkspace string               `yaml:"default_workspace"`
	LogLevel         string               `yaml:"log_level"`
	HTTP             HTTPConfig           `yaml:"http"`
	Widgets          []catalog.Definition `yaml:"widgets,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Columns:    6,
			Rows:       5,
			CellWidth:  100,
			CellHeight: 80,
			Gap:        10,
		},
		Interaction: InteractionConfig{
			LongPressMS:     500,
			DoubleClickMS:   300,
			MoveTolerancePX: 5,
			// Disabled: edit mode stays until explicitly left.
			EditTimeoutSeconds: 0,
		},
		DefaultWorkspace: "default",
		LogLevel:         "info",
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8470",
		},
	}
}

// GridGeometry returns the placement grid derived from the config.
func (c *Config) GridGeometry() grid.Config {
	return grid.Config{
		Columns:    c.Grid.Columns,
		Rows:       c.Grid.Rows,
		CellWidth:  c.Grid.CellWidth,
		CellHeight: c.Grid.CellHeight,
		Gap:        c.Grid.Gap,
	}
}

// GestureConfig returns the classifier thresholds derived from the config.
func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{
		LongPress:     time.Duration(c.Interaction.LongPressMS) * time.Millisecond,
		DoubleClick:   time.Duration(c.Interaction.DoubleClickMS) * time.Millisecond,
		MoveTolerance: c.Interaction.MoveTolerancePX,
	}
}

// EditTimeout returns the edit-mode idle timeout, 0 when disabled.
func (c *Config) EditTimeout() time.Duration {
	return time.Duration(c.Interaction.EditTimeoutSeconds) * time.Second
}

// Catalog builds the widget catalog with the config's extensions applied.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	return catalog.New(c.Widgets...)
}

// DataDir returns the lab data directory, defaulting next to the config.
func (c *Config) DataDir() (string, error) {
	if c.HTTP.DataDir != "" {
		return c.HTTP.DataDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "benchtop"), nil
}

// ValidationError reports an invalid configuration value by YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Grid.Columns < 1 {
		return &ValidationError{Path: "grid.columns", Err: fmt.Errorf("columns must be >= 1")}
	}
	if c.Grid.Rows < 1 {
		return &ValidationError{Path: "grid.rows", Err: fmt.Errorf("rows must be >= 1")}
	}
	if c.Grid.CellWidth < 1 || c.Grid.CellHeight < 1 {
		return &ValidationError{Path: "grid.cell_width", Err: fmt.Errorf("cell dimensions must be >= 1")}
	}
	if c.Grid.Gap < 0 {
		return &ValidationError{Path: "grid.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if c.Interaction.LongPressMS < 1 {
		return &ValidationError{Path: "interaction.long_press_ms", Err: fmt.Errorf("long_press_ms must be >= 1")}
	}
	if c.Interaction.DoubleClickMS < 1 {
		return &ValidationError{Path: "interaction.double_click_ms", Err: fmt.Errorf("double_click_ms must be >= 1")}
	}
	if c.Interaction.MoveTolerancePX < 0 {
		return &ValidationError{Path: "interaction.move_tolerance_px", Err: fmt.Errorf("move_tolerance_px must be >= 0")}
	}
	if c.Interaction.EditTimeoutSeconds < 0 {
		return &ValidationError{Path: "interaction.edit_timeout_seconds", Err: fmt.Errorf("edit_timeout_seconds must be >= 0")}
	}
	if c.DefaultWorkspace == "" {
		return &ValidationError{Path: "default_workspace", Err: fmt.Errorf("default_workspace is required")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.HTTP.Addr == "" {
		return &ValidationError{Path: "http.addr", Err: fmt.Errorf("addr is required")}
	}
	for i, w := range c.Widgets {
		if w.ID == "" {
			return &ValidationError{Path: fmt.Sprintf("widgets[%d].id", i), Err: fmt.Errorf("id is required")}
		}
		if w.Cols < 1 || w.Rows < 1 {
			return &ValidationError{Path: fmt.Sprintf("widgets[%d]", i), Err: fmt.Errorf("footprint must be at least 1x1")}
		}
		if w.Cols > c.Grid.Columns || w.Rows > c.Grid.Rows {
			return &ValidationError{Path: fmt.Sprintf("widgets[%d]", i), Err: fmt.Errorf("footprint %dx%d exceeds the %dx%d grid", w.Cols, w.Rows, c.Grid.Columns, c.Grid.Rows)}
		}
	}
	return nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
