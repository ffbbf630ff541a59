// Package desk is the interactive bench shell: a full-screen terminal
// surface where lab widgets are placed on a grid, clicked, long-pressed
// into edit mode, and dragged to new cells. It hosts the IPC server so
// the CLI can drive a running desk, and reloads its configuration when
// the file changes on disk.
package desk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/catalog"
	"github.com/benchtop-sh/benchtop/internal/config"
	"github.com/benchtop-sh/benchtop/internal/gesture"
	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/ipc"
	"github.com/benchtop-sh/benchtop/internal/runtimepath"
	"github.com/benchtop-sh/benchtop/internal/surface"
	"github.com/benchtop-sh/benchtop/internal/workspace"
)

// Cell dimensions in terminal characters. The engine's pixel unit is
// one character here, so pointer math and snapping come out in columns
// and rows directly.
const (
	cellWidthChars  = 16
	cellHeightChars = 4
	cellGapChars    = 1
)

// programRef is a shared reference to the tea.Program for goroutine
// sends. It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

func (r *programRef) running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.p != nil
}

// Desk owns the surface a running shell displays, the workspace it was
// loaded from, and the IPC surface other processes talk to.
type Desk struct {
	configPath string
	log        *slog.Logger
	ref        *programRef
	ghost      *ghostState

	mu          sync.Mutex
	cfg         *config.Config
	catalog     *catalog.Catalog
	surf        *surface.Surface
	unsubscribe func()
	workspaces  *workspace.Store
	active      string
}

// New builds a desk from a loaded configuration. configPath may be
// empty, which disables live reload.
func New(cfg *config.Config, configPath string, workspaces *workspace.Store, logger *slog.Logger) (*Desk, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Desk{
		configPath: configPath,
		log:        logger,
		ref:        &programRef{},
		ghost:      &ghostState{},
		workspaces: workspaces,
	}
	if err := d.applyConfig(cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// charGrid maps the configured grid onto terminal characters.
func charGrid(cfg *config.Config) grid.Config {
	g := cfg.GridGeometry()
	return grid.Config{
		Columns:    g.Columns,
		Rows:       g.Rows,
		CellWidth:  cellWidthChars,
		CellHeight: cellHeightChars,
		Gap:        cellGapChars,
	}
}

// charGestures adapts the configured gesture thresholds to character
// coordinates, where the configured pixel tolerance would swallow a
// third of a cell.
func charGestures(cfg *config.Config) gesture.Config {
	g := cfg.GestureConfig()
	g.MoveTolerance = 1
	return g
}

// applyConfig swaps in a new configuration, rebuilding the surface and
// reseeding it from the active workspace file.
func (d *Desk) applyConfig(cfg *config.Config) error {
	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("building widget catalog: %w", err)
	}

	d.mu.Lock()
	if d.surf != nil {
		// Finish any in-flight gesture on the outgoing surface: its drag
		// manager owns the shared ghost, and without a cancel the ghost
		// would stay detached over the rebuilt surface.
		d.surf.PointerCancel()
	}
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
	d.cfg = cfg
	d.catalog = cat
	d.surf = surface.New(surface.Options{
		Grid:        charGrid(cfg),
		Gesture:     charGestures(cfg),
		EditTimeout: cfg.EditTimeout(),
		Catalog:     cat,
		Ghost:       d.ghost,
		Logger:      d.log,
	})
	d.unsubscribe = d.surf.Bus().Subscribe(func(e bus.Event) {
		d.ref.Send(busEventMsg{event: e})
	})
	name := d.active
	d.mu.Unlock()

	if name != "" {
		return d.loadWorkspace(name)
	}
	return nil
}

// Run starts the shell, blocking until it exits.
func (d *Desk) Run(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("desk requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	name := d.workspaces.Active()
	if name == "" {
		name = d.cfg.DefaultWorkspace
	}
	if err := d.loadWorkspace(name); err != nil {
		return err
	}

	srv := ipc.NewServer(mustSocketPath(), d)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting IPC server: %w", err)
	}
	defer srv.Stop()

	if d.configPath != "" {
		w, err := config.Watch(d.configPath, d.log, func(cfg *config.Config) {
			d.ref.Send(configReloadedMsg{cfg: cfg})
		})
		if err != nil {
			d.log.Warn("config watch unavailable", "error", err)
		} else {
			defer w.Close()
		}
	}

	p := tea.NewProgram(
		newModel(d),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	d.ref.Set(p)
	defer d.ref.Clear()

	_, err := p.Run()
	return err
}

func mustSocketPath() string {
	path, err := runtimepath.SocketPath()
	if err != nil {
		// Dir falls back to /tmp before erroring; reaching this means
		// the environment is unusable anyway.
		return "/tmp/benchtop.sock"
	}
	return path
}

// loadWorkspace seeds the surface from a workspace file and records it
// as active. A missing file starts an empty bench.
func (d *Desk) loadWorkspace(name string) error {
	if err := workspace.ValidateWorkspaceName(name); err != nil {
		return err
	}

	var seeds []surface.SeedWidget
	ws, err := d.workspaces.Read(name)
	switch {
	case err == nil:
		seeds = make([]surface.SeedWidget, 0, len(ws.Widgets))
		for _, w := range ws.Widgets {
			seeds = append(seeds, surface.SeedWidget{
				ID:           w.ID,
				DefinitionID: w.DefinitionID,
				AnchorCell:   w.AnchorCell,
				Config:       w.Config,
			})
		}
	case errors.Is(err, fs.ErrNotExist):
		// fresh workspace
	default:
		return err
	}

	d.mu.Lock()
	surf := d.surf
	prev := d.active
	d.active = name
	d.mu.Unlock()

	surf.Seed(seeds)
	if err := d.workspaces.SetActive(name); err != nil {
		d.log.Warn("recording active workspace", "error", err)
	}
	if prev != name && prev != "" {
		surf.Bus().Publish(bus.WorkspaceSwitched{Name: name})
	}
	return nil
}

// saveWorkspace writes the surface's current layout back to the active
// workspace file.
func (d *Desk) saveWorkspace() error {
	d.mu.Lock()
	surf := d.surf
	name := d.active
	d.mu.Unlock()
	if name == "" {
		return nil
	}

	widgets := surf.Widgets()
	entries := make([]workspace.WidgetEntry, 0, len(widgets))
	for _, w := range widgets {
		entries = append(entries, workspace.WidgetEntry{
			ID:           w.ID,
			DefinitionID: w.DefinitionID,
			AnchorCell:   w.Footprint.AnchorCell,
			Config:       w.Config,
		})
	}
	return d.workspaces.Write(&workspace.WorkspaceConfig{
		Name:    name,
		Widgets: entries,
	})
}

func (d *Desk) surface() *surface.Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surf
}

func (d *Desk) definitions() []catalog.Definition {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.catalog.Definitions()
}

func (d *Desk) definition(id string) (catalog.Definition, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.catalog.Definition(id)
}

func (d *Desk) activeWorkspace() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// ── IPC surface ──────────────────────────────────────────────────

// Status implements ipc.Desk.
func (d *Desk) Status() ipc.StatusData {
	surf := d.surface()
	g := surf.Grid()
	return ipc.StatusData{
		ActiveWorkspace: d.activeWorkspace(),
		Mode:            surf.Mode().String(),
		WidgetCount:     len(surf.Widgets()),
		GridColumns:     g.Columns,
		GridRows:        g.Rows,
	}
}

// ListWidgets implements ipc.Desk.
func (d *Desk) ListWidgets() []ipc.WidgetInfo {
	surf := d.surface()
	placed := surf.Widgets()
	infos := make([]ipc.WidgetInfo, 0, len(placed))
	for _, w := range placed {
		infos = append(infos, d.widgetInfo(surf, w.ID))
	}
	return infos
}

func (d *Desk) widgetInfo(surf *surface.Surface, id string) ipc.WidgetInfo {
	w, ok := surf.Widget(id)
	if !ok {
		return ipc.WidgetInfo{ID: id}
	}
	title := w.DefinitionID
	if def, ok := d.definition(w.DefinitionID); ok {
		title = def.Title
	}
	return ipc.WidgetInfo{
		ID:           w.ID,
		DefinitionID: w.DefinitionID,
		Title:        title,
		AnchorCell:   w.Footprint.AnchorCell,
		Cols:         w.Footprint.Cols,
		Rows:         w.Footprint.Rows,
		Cells:        w.Footprint.Cells(surf.Grid()),
	}
}

// PlaceWidget implements ipc.Desk.
func (d *Desk) PlaceWidget(definitionID string, cell int) (ipc.WidgetInfo, error) {
	surf := d.surface()
	w, err := surf.AddWidget(definitionID, cell, nil)
	if err != nil {
		return ipc.WidgetInfo{}, err
	}
	if err := d.saveWorkspace(); err != nil {
		d.log.Warn("persisting workspace", "error", err)
	}
	return d.widgetInfo(surf, w.ID), nil
}

// MoveWidget implements ipc.Desk.
func (d *Desk) MoveWidget(widgetID string, anchorCell int) error {
	if err := d.surface().MoveWidget(widgetID, anchorCell); err != nil {
		return err
	}
	if err := d.saveWorkspace(); err != nil {
		d.log.Warn("persisting workspace", "error", err)
	}
	return nil
}

// RemoveWidget implements ipc.Desk.
func (d *Desk) RemoveWidget(widgetID string) error {
	surf := d.surface()
	if _, ok := surf.Widget(widgetID); !ok {
		return fmt.Errorf("unknown widget %q", widgetID)
	}
	surf.RemoveWidget(widgetID)
	if err := d.saveWorkspace(); err != nil {
		d.log.Warn("persisting workspace", "error", err)
	}
	return nil
}

// SetMode implements ipc.Desk.
func (d *Desk) SetMode(mode string) error {
	switch mode {
	case "edit":
		d.surface().EnterEditMode()
	case "normal":
		d.surface().ExitEditMode()
	default:
		return fmt.Errorf("unknown mode %q (want normal or edit)", mode)
	}
	return nil
}

// ListWorkspaces implements ipc.Desk.
func (d *Desk) ListWorkspaces() (ipc.WorkspacesData, error) {
	names, err := d.workspaces.List()
	if err != nil {
		return ipc.WorkspacesData{}, err
	}
	return ipc.WorkspacesData{
		Workspaces: names,
		Active:     d.activeWorkspace(),
	}, nil
}

// SwitchWorkspace implements ipc.Desk. When the UI loop is running the
// swap is handed to it, since seeding tears down in-flight gestures.
func (d *Desk) SwitchWorkspace(name string) error {
	if err := workspace.ValidateWorkspaceName(name); err != nil {
		return err
	}
	if !d.workspaces.Exists(name) {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if d.ref.running() {
		// The swap itself is deferred to the UI loop, so read the target
		// now: an unreadable file must fail this call, not just flash in
		// the status line after the reply went out.
		if _, err := d.workspaces.Read(name); err != nil {
			return err
		}
		d.ref.Send(switchWorkspaceMsg{name: name})
		return nil
	}
	return d.loadWorkspace(name)
}

// Reload implements ipc.Desk.
func (d *Desk) Reload() error {
	path := d.configPath
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(path)
	}
	if err != nil {
		return err
	}
	if d.ref.running() {
		d.ref.Send(configReloadedMsg{cfg: cfg})
		return nil
	}
	return d.reloadConfig(cfg)
}

// reloadConfig swaps in a fresh config and announces the reload on the
// new surface's bus.
func (d *Desk) reloadConfig(cfg *config.Config) error {
	if err := d.applyConfig(cfg); err != nil {
		return err
	}
	d.surface().Bus().Publish(bus.ConfigReloaded{Path: d.configPath})
	return nil
}
