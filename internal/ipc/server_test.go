package ipc

import (
	"fmt"
	"path/filepath"
	"testing"
)

type fakeDesk struct {
	widgets   []WidgetInfo
	mode      string
	switched  []string
	reloads   int
	failPlace bool
}

func (d *fakeDesk) Status() StatusData {
	return StatusData{
		ActiveWorkspace: "wetlab",
		Mode:            d.mode,
		WidgetCount:     len(d.widgets),
		GridColumns:     6,
		GridRows:        5,
	}
}

func (d *fakeDesk) ListWidgets() []WidgetInfo { return d.widgets }

func (d *fakeDesk) PlaceWidget(definitionID string, cell int) (WidgetInfo, error) {
	if d.failPlace {
		return WidgetInfo{}, fmt.Errorf("cell %d occupied", cell)
	}
	w := WidgetInfo{ID: "new", DefinitionID: definitionID, AnchorCell: cell, Cols: 1, Rows: 1}
	d.widgets = append(d.widgets, w)
	return w, nil
}

func (d *fakeDesk) MoveWidget(widgetID string, anchorCell int) error {
	for i := range d.widgets {
		if d.widgets[i].ID == widgetID {
			d.widgets[i].AnchorCell = anchorCell
			return nil
		}
	}
	return fmt.Errorf("unknown widget %s", widgetID)
}

func (d *fakeDesk) RemoveWidget(widgetID string) error { return nil }

func (d *fakeDesk) SetMode(mode string) error {
	if mode != "normal" && mode != "edit" {
		return fmt.Errorf("unknown mode %q", mode)
	}
	d.mode = mode
	return nil
}

func (d *fakeDesk) ListWorkspaces() (WorkspacesData, error) {
	return WorkspacesData{Workspaces: []string{"default", "wetlab"}, Active: "wetlab"}, nil
}

func (d *fakeDesk) SwitchWorkspace(name string) error {
	d.switched = append(d.switched, name)
	return nil
}

func (d *fakeDesk) Reload() error {
	d.reloads++
	return nil
}

func startTestServer(t *testing.T, desk *fakeDesk) *Client {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)

	srv := NewServer(filepath.Join(dir, "benchtop.sock"), desk)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)

	return NewClient()
}

func TestGetStatus(t *testing.T) {
	desk := &fakeDesk{mode: "normal"}
	client := startTestServer(t, desk)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.ActiveWorkspace != "wetlab" || status.Mode != "normal" {
		t.Errorf("status = %+v", status)
	}
	if !status.DeskRunning {
		t.Error("DeskRunning = false")
	}
	if status.GridColumns != 6 || status.GridRows != 5 {
		t.Errorf("grid = %dx%d, want 6x5", status.GridColumns, status.GridRows)
	}
}

func TestPlaceListMoveWidgets(t *testing.T) {
	desk := &fakeDesk{mode: "normal"}
	client := startTestServer(t, desk)

	w, err := client.PlaceWidget("experiment-timer", 7)
	if err != nil {
		t.Fatalf("PlaceWidget: %v", err)
	}
	if w.DefinitionID != "experiment-timer" || w.AnchorCell != 7 {
		t.Errorf("placed widget = %+v", w)
	}

	data, err := client.ListWidgets()
	if err != nil {
		t.Fatalf("ListWidgets: %v", err)
	}
	if len(data.Widgets) != 1 {
		t.Fatalf("widgets = %+v, want 1", data.Widgets)
	}

	if err := client.MoveWidget(w.ID, 12); err != nil {
		t.Fatalf("MoveWidget: %v", err)
	}
	if desk.widgets[0].AnchorCell != 12 {
		t.Errorf("anchor = %d, want 12", desk.widgets[0].AnchorCell)
	}
}

func TestPlaceWidgetErrorPropagates(t *testing.T) {
	desk := &fakeDesk{failPlace: true}
	client := startTestServer(t, desk)

	if _, err := client.PlaceWidget("experiment-timer", 7); err == nil {
		t.Fatal("PlaceWidget succeeded, want desk error")
	}
}

func TestSetModeValidation(t *testing.T) {
	desk := &fakeDesk{mode: "normal"}
	client := startTestServer(t, desk)

	if err := client.SetMode("edit"); err != nil {
		t.Fatalf("SetMode edit: %v", err)
	}
	if desk.mode != "edit" {
		t.Errorf("mode = %q, want edit", desk.mode)
	}
	if err := client.SetMode("wiggle"); err == nil {
		t.Error("invalid mode accepted")
	}
}

func TestWorkspaceCommands(t *testing.T) {
	desk := &fakeDesk{}
	client := startTestServer(t, desk)

	data, err := client.ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if data.Active != "wetlab" || len(data.Workspaces) != 2 {
		t.Errorf("workspaces = %+v", data)
	}

	if err := client.SwitchWorkspace("default"); err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	if len(desk.switched) != 1 || desk.switched[0] != "default" {
		t.Errorf("switched = %v", desk.switched)
	}
}

func TestReload(t *testing.T) {
	desk := &fakeDesk{}
	client := startTestServer(t, desk)

	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if desk.reloads != 1 {
		t.Errorf("reloads = %d, want 1", desk.reloads)
	}
}
