package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/benchtop-sh/benchtop/internal/config"
	"github.com/benchtop-sh/benchtop/internal/workspace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	store := workspace.NewStore(t.TempDir())
	s, err := NewServer(cfg, store)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func place(t *testing.T, s *Server, in PlaceWidgetInput) PlaceWidgetOutput {
	t.Helper()
	_, out, err := s.handlePlaceWidget(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("place_widget(%+v) error = %v", in, err)
	}
	return out
}

func TestPlaceWidgetPersistsToWorkspace(t *testing.T) {
	s := newTestServer(t)

	out := place(t, s, PlaceWidgetInput{DefinitionID: "chemical-inventory", Cell: 9})
	if out.Widget.AnchorCell != 9 {
		t.Errorf("anchor = %d, want 9", out.Widget.AnchorCell)
	}
	if out.Widget.Cols != 2 || out.Widget.Rows != 2 {
		t.Errorf("footprint = %dx%d, want 2x2", out.Widget.Cols, out.Widget.Rows)
	}
	if out.Workspace != s.config.DefaultWorkspace {
		t.Errorf("workspace = %q, want default %q", out.Workspace, s.config.DefaultWorkspace)
	}

	// The widget must survive a fresh load from the workspace file.
	_, listed, err := s.handleListWidgets(context.Background(), nil, ListWidgetsInput{})
	if err != nil {
		t.Fatalf("list_widgets error = %v", err)
	}
	if len(listed.Widgets) != 1 {
		t.Fatalf("got %d widgets, want 1", len(listed.Widgets))
	}
	if listed.Widgets[0].ID != out.Widget.ID {
		t.Errorf("listed ID = %q, want %q", listed.Widgets[0].ID, out.Widget.ID)
	}
	if listed.Widgets[0].Title != "Chemical Inventory" {
		t.Errorf("title = %q, want catalog title", listed.Widgets[0].Title)
	}
}

func TestPlaceWidgetClampsOverflowingAnchor(t *testing.T) {
	s := newTestServer(t)

	// Cell 6 is the last column of a 6-wide grid; a 2x2 widget cannot
	// anchor there and shifts left one column.
	out := place(t, s, PlaceWidgetInput{DefinitionID: "chemical-inventory", Cell: 6})
	if out.Widget.AnchorCell != 5 {
		t.Errorf("anchor = %d, want 5", out.Widget.AnchorCell)
	}
}

func TestPlaceWidgetRejectsOccupiedCells(t *testing.T) {
	s := newTestServer(t)

	place(t, s, PlaceWidgetInput{DefinitionID: "chemical-inventory", Cell: 9})
	_, _, err := s.handlePlaceWidget(context.Background(), nil, PlaceWidgetInput{
		DefinitionID: "experiment-timer", Cell: 10,
	})
	if err == nil {
		t.Fatal("expected error placing onto occupied cell")
	}

	_, listed, err := s.handleListWidgets(context.Background(), nil, ListWidgetsInput{})
	if err != nil {
		t.Fatalf("list_widgets error = %v", err)
	}
	if len(listed.Widgets) != 1 {
		t.Errorf("got %d widgets after failed place, want 1", len(listed.Widgets))
	}
}

func TestPlaceWidgetUnknownDefinition(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handlePlaceWidget(context.Background(), nil, PlaceWidgetInput{
		DefinitionID: "centrifuge-cam", Cell: 1,
	})
	if err == nil {
		t.Fatal("expected error for unknown definition")
	}
	if !strings.Contains(err.Error(), "centrifuge-cam") {
		t.Errorf("error %q does not name the definition", err)
	}
}

func TestMoveWidget(t *testing.T) {
	s := newTestServer(t)

	placed := place(t, s, PlaceWidgetInput{DefinitionID: "chemical-inventory", Cell: 9})
	_, out, err := s.handleMoveWidget(context.Background(), nil, MoveWidgetInput{
		WidgetID: placed.Widget.ID, AnchorCell: 20,
	})
	if err != nil {
		t.Fatalf("move_widget error = %v", err)
	}
	if out.Widget.AnchorCell != 20 {
		t.Errorf("anchor = %d, want 20", out.Widget.AnchorCell)
	}

	_, listed, err := s.handleListWidgets(context.Background(), nil, ListWidgetsInput{})
	if err != nil {
		t.Fatalf("list_widgets error = %v", err)
	}
	if listed.Widgets[0].AnchorCell != 20 {
		t.Errorf("persisted anchor = %d, want 20", listed.Widgets[0].AnchorCell)
	}
}

func TestMoveWidgetBlockedLeavesFileUntouched(t *testing.T) {
	s := newTestServer(t)

	a := place(t, s, PlaceWidgetInput{DefinitionID: "chemical-inventory", Cell: 9})
	place(t, s, PlaceWidgetInput{DefinitionID: "experiment-timer", Cell: 21})

	_, _, err := s.handleMoveWidget(context.Background(), nil, MoveWidgetInput{
		WidgetID: a.Widget.ID, AnchorCell: 20,
	})
	if err == nil {
		t.Fatal("expected error moving onto occupied cell")
	}

	_, listed, err := s.handleListWidgets(context.Background(), nil, ListWidgetsInput{})
	if err != nil {
		t.Fatalf("list_widgets error = %v", err)
	}
	for _, w := range listed.Widgets {
		if w.ID == a.Widget.ID && w.AnchorCell != 9 {
			t.Errorf("anchor = %d after failed move, want 9", w.AnchorCell)
		}
	}
}

func TestRemoveWidget(t *testing.T) {
	s := newTestServer(t)

	placed := place(t, s, PlaceWidgetInput{DefinitionID: "experiment-timer", Cell: 3})
	_, out, err := s.handleRemoveWidget(context.Background(), nil, RemoveWidgetInput{
		WidgetID: placed.Widget.ID,
	})
	if err != nil {
		t.Fatalf("remove_widget error = %v", err)
	}
	if !out.Removed {
		t.Error("Removed = false for a placed widget")
	}

	_, again, err := s.handleRemoveWidget(context.Background(), nil, RemoveWidgetInput{
		WidgetID: placed.Widget.ID,
	})
	if err != nil {
		t.Fatalf("second remove_widget error = %v", err)
	}
	if again.Removed {
		t.Error("Removed = true for an already-removed widget")
	}
}

func TestExplicitWorkspaceIsolation(t *testing.T) {
	s := newTestServer(t)

	place(t, s, PlaceWidgetInput{DefinitionID: "experiment-timer", Cell: 1, Workspace: "assay-a"})
	place(t, s, PlaceWidgetInput{DefinitionID: "sample-tracker", Cell: 1, Workspace: "assay-b"})

	_, listed, err := s.handleListWidgets(context.Background(), nil, ListWidgetsInput{Workspace: "assay-a"})
	if err != nil {
		t.Fatalf("list_widgets error = %v", err)
	}
	if len(listed.Widgets) != 1 || listed.Widgets[0].DefinitionID != "experiment-timer" {
		t.Errorf("assay-a widgets = %+v, want one experiment-timer", listed.Widgets)
	}
}

func TestInvalidWorkspaceNameRejected(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleListWidgets(context.Background(), nil, ListWidgetsInput{Workspace: "../escape"})
	if err == nil {
		t.Fatal("expected error for path-traversal workspace name")
	}
}

func TestListWorkspaces(t *testing.T) {
	s := newTestServer(t)

	place(t, s, PlaceWidgetInput{DefinitionID: "experiment-timer", Cell: 1, Workspace: "assay-a"})
	if err := s.workspaces.SetActive("assay-a"); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	_, out, err := s.handleListWorkspaces(context.Background(), nil, ListWorkspacesInput{})
	if err != nil {
		t.Fatalf("list_workspaces error = %v", err)
	}
	if len(out.Workspaces) != 1 || out.Workspaces[0] != "assay-a" {
		t.Errorf("workspaces = %v, want [assay-a]", out.Workspaces)
	}
	if out.Active != "assay-a" {
		t.Errorf("active = %q, want assay-a", out.Active)
	}
}

func TestListCatalogIncludesBuiltins(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleListCatalog(context.Background(), nil, ListCatalogInput{})
	if err != nil {
		t.Fatalf("list_catalog error = %v", err)
	}

	byID := make(map[string]bool, len(out.Definitions))
	for _, d := range out.Definitions {
		byID[d.ID] = true
	}
	for _, id := range []string{"chemical-inventory", "eln-launcher", "sample-tracker"} {
		if !byID[id] {
			t.Errorf("catalog missing %q", id)
		}
	}
}
