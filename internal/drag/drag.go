// Package drag runs the lifetime of one widget drag: detach the widget
// into a ghost that follows the pointer snapped to the grid, preview
// whether each candidate anchor is droppable, then commit the move or
// put the widget back where it started.
package drag

import (
	"fmt"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/occupancy"
)

// Ghost is the rendering side of a drag. Detach lifts the widget out of
// its cell into a floating representation, MoveTo repositions it, and
// Attach settles it back into whatever anchor the store holds.
type Ghost interface {
	Detach(widgetID string, r grid.Rect)
	MoveTo(widgetID string, r grid.Rect)
	Attach(widgetID string)
}

// NopGhost satisfies Ghost for headless engine use.
type NopGhost struct{}

func (NopGhost) Detach(string, grid.Rect) {}
func (NopGhost) MoveTo(string, grid.Rect) {}
func (NopGhost) Attach(string)            {}

type session struct {
	widgetID    string
	startAnchor int
	cols, rows  int
	// offset from the widget's top-left pixel to the grab point, so
	// the ghost tracks where the user picked the widget up
	offset grid.Point
	// anchor currently previewed; 0 until the first Move resolves one
	previewAnchor int
	previewValid  bool
}

// Manager owns at most one drag session at a time. It is driven from a
// single input goroutine and is not safe for concurrent use.
type Manager struct {
	store *occupancy.Store
	bus   *bus.Bus
	ghost Ghost

	active *session
}

func NewManager(store *occupancy.Store, b *bus.Bus, ghost Ghost) *Manager {
	if ghost == nil {
		ghost = NopGhost{}
	}
	return &Manager{store: store, bus: b, ghost: ghost}
}

// Active returns the ID of the widget being dragged, or "".
func (m *Manager) Active() string {
	if m.active == nil {
		return ""
	}
	return m.active.widgetID
}

// Start begins dragging widgetID from pointer. Any session already in
// flight is cancelled first.
func (m *Manager) Start(widgetID string, pointer grid.Point) error {
	if m.active != nil {
		m.Cancel()
	}
	w, ok := m.store.Widget(widgetID)
	if !ok {
		return fmt.Errorf("drag start: %w: %s", occupancy.ErrUnknownWidget, widgetID)
	}
	cfg := m.store.Grid()
	rect := cfg.FootprintRect(w.Footprint.AnchorCell, w.Footprint.Cols, w.Footprint.Rows)
	m.active = &session{
		widgetID:    widgetID,
		startAnchor: w.Footprint.AnchorCell,
		cols:        w.Footprint.Cols,
		rows:        w.Footprint.Rows,
		offset:      grid.Point{X: pointer.X - rect.X, Y: pointer.Y - rect.Y},
	}
	m.ghost.Detach(widgetID, rect)
	m.preview(pointer)
	return nil
}

// Move updates the ghost and preview for a pointer position. Calls with
// no active session are ignored.
func (m *Manager) Move(pointer grid.Point) {
	if m.active == nil {
		return
	}
	m.preview(pointer)
}

// preview resolves the widget's would-be top-left pixel, snaps it to a
// candidate anchor, and when the anchor changed republishes the ghost
// rectangle and drop validity.
func (m *Manager) preview(pointer grid.Point) {
	s := m.active
	cfg := m.store.Grid()
	topLeft := grid.Point{X: pointer.X - s.offset.X, Y: pointer.Y - s.offset.Y}
	target := cfg.CellAtPosition(topLeft)
	anchor := cfg.ClampAnchorForFootprint(target, s.cols, s.rows)
	if anchor == 0 || anchor == s.previewAnchor {
		return
	}
	cells := cfg.FootprintCells(anchor, s.cols, s.rows)
	valid := m.store.IsRegionFree(cells, s.widgetID)

	s.previewAnchor = anchor
	s.previewValid = valid
	m.ghost.MoveTo(s.widgetID, cfg.FootprintRect(anchor, s.cols, s.rows))
	m.bus.Publish(bus.DragPreview{
		WidgetID: s.widgetID,
		Anchor:   anchor,
		Cells:    cells,
		Valid:    valid,
	})
}

// End drops the widget at the pointer's snapped anchor. An invalid or
// rejected drop reverts to the starting anchor; either way the ghost is
// reattached and the session cleared.
func (m *Manager) End(pointer grid.Point) {
	s := m.active
	if s == nil {
		return
	}
	m.preview(pointer)

	committed := false
	if s.previewAnchor != 0 && s.previewValid {
		if err := m.store.TryMove(s.widgetID, s.previewAnchor); err == nil {
			committed = true
		}
	}
	m.finish(committed)
}

// Cancel aborts the session, leaving the widget at its starting anchor.
func (m *Manager) Cancel() {
	if m.active == nil {
		return
	}
	m.finish(false)
}

func (m *Manager) finish(committed bool) {
	s := m.active
	m.active = nil

	anchor := s.startAnchor
	if w, ok := m.store.Widget(s.widgetID); ok {
		anchor = w.Footprint.AnchorCell
	}
	m.ghost.Attach(s.widgetID)
	m.bus.Publish(bus.DragEnded{
		WidgetID:  s.widgetID,
		Committed: committed,
		Anchor:    anchor,
	})
}
