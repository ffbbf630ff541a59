package mcp

import "github.com/benchtop-sh/benchtop/internal/catalog"

// WidgetSummary describes one placed widget.
type WidgetSummary struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definition_id"`
	Title        string `json:"title"`
	AnchorCell   int    `json:"anchor_cell"`
	Cols         int    `json:"cols"`
	Rows         int    `json:"rows"`
	Cells        []int  `json:"cells"`
}

// ListWidgetsInput is the input for the list_widgets tool.
type ListWidgetsInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace name (default: the active workspace)"`
}

// ListWidgetsOutput is the output for the list_widgets tool.
type ListWidgetsOutput struct {
	Workspace   string          `json:"workspace"`
	GridColumns int             `json:"grid_columns"`
	GridRows    int             `json:"grid_rows"`
	Widgets     []WidgetSummary `json:"widgets"`
}

// PlaceWidgetInput is the input for the place_widget tool.
type PlaceWidgetInput struct {
	DefinitionID string            `json:"definition_id" jsonschema:"required,Catalog definition ID of the widget type to place"`
	Cell         int               `json:"cell" jsonschema:"required,Target cell for the widget's top-left corner (1-based, row-major). The anchor is shifted left/up when the footprint would overflow the grid."`
	Config       map[string]string `json:"config,omitempty" jsonschema:"Optional per-widget configuration values"`
	Workspace    string            `json:"workspace,omitempty" jsonschema:"Workspace name (default: the active workspace)"`
}

// PlaceWidgetOutput is the output for the place_widget tool.
type PlaceWidgetOutput struct {
	Workspace string        `json:"workspace"`
	Widget    WidgetSummary `json:"widget"`
}

// MoveWidgetInput is the input for the move_widget tool.
type MoveWidgetInput struct {
	WidgetID   string `json:"widget_id" jsonschema:"required,ID of the placed widget to move"`
	AnchorCell int    `json:"anchor_cell" jsonschema:"required,New anchor cell (1-based, row-major)"`
	Workspace  string `json:"workspace,omitempty" jsonschema:"Workspace name (default: the active workspace)"`
}

// MoveWidgetOutput is the output for the move_widget tool.
type MoveWidgetOutput struct {
	Workspace string        `json:"workspace"`
	Widget    WidgetSummary `json:"widget"`
}

// RemoveWidgetInput is the input for the remove_widget tool.
type RemoveWidgetInput struct {
	WidgetID  string `json:"widget_id" jsonschema:"required,ID of the placed widget to remove"`
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace name (default: the active workspace)"`
}

// RemoveWidgetOutput is the output for the remove_widget tool.
type RemoveWidgetOutput struct {
	Workspace string `json:"workspace"`
	Removed   bool   `json:"removed"`
}

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct{}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []string `json:"workspaces"`
	Active     string   `json:"active"`
}

// ListCatalogInput is the input for the list_catalog tool.
type ListCatalogInput struct{}

// ListCatalogOutput is the output for the list_catalog tool.
type ListCatalogOutput struct {
	Definitions []catalog.Definition `json:"definitions"`
}
