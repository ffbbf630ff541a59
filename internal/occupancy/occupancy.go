// Package occupancy tracks which widget owns which grid cell. The store
// is the single source of truth for placement: every non-empty cell is
// claimed by exactly one widget, every placed widget's footprint lies
// fully inside the grid, and failed operations leave the store exactly
// as it was.
package occupancy

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/grid"
)

var (
	// ErrOccupied reports a placement blocked by an existing widget.
	ErrOccupied = errors.New("cell occupied")
	// ErrOutOfBounds reports a footprint extending past the grid.
	ErrOutOfBounds = errors.New("footprint out of bounds")
	// ErrInvalidFootprint reports a footprint with non-positive span.
	ErrInvalidFootprint = errors.New("invalid footprint")
	// ErrUnknownWidget reports an operation on a widget not in the store.
	ErrUnknownWidget = errors.New("unknown widget")
	// ErrDuplicateWidget reports placing an ID that is already placed.
	ErrDuplicateWidget = errors.New("widget already placed")
)

// OccupiedError carries the first blocking cell of a rejected
// placement. It unwraps to ErrOccupied.
type OccupiedError struct {
	Cell     int
	WidgetID string
}

func (e *OccupiedError) Error() string {
	return fmt.Sprintf("cell %d occupied by widget %s", e.Cell, e.WidgetID)
}

func (e *OccupiedError) Unwrap() error { return ErrOccupied }

// Footprint is a widget's claim on the grid: an anchor cell and a
// rectangular span extending right and down.
type Footprint struct {
	AnchorCell int
	Cols       int
	Rows       int
}

// Cells enumerates the footprint's cells under cfg.
func (f Footprint) Cells(cfg grid.Config) []int {
	return cfg.FootprintCells(f.AnchorCell, f.Cols, f.Rows)
}

// Widget is a placed instance of a catalog definition.
type Widget struct {
	ID           string
	DefinitionID string
	Footprint    Footprint
	Config       map[string]string
}

// Store holds the placement state for one surface. All methods are safe
// for concurrent use.
type Store struct {
	cfg grid.Config
	bus *bus.Bus

	mu      sync.Mutex
	cells   map[int]string // cell number -> widget ID
	widgets map[string]*Widget
}

func NewStore(cfg grid.Config, b *bus.Bus) *Store {
	return &Store{
		cfg:     cfg,
		bus:     b,
		cells:   make(map[int]string),
		widgets: make(map[string]*Widget),
	}
}

// Grid returns the grid configuration the store validates against.
func (s *Store) Grid() grid.Config { return s.cfg }

func (s *Store) validate(f Footprint) ([]int, error) {
	if f.Cols < 1 || f.Rows < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFootprint, f.Cols, f.Rows)
	}
	if !s.cfg.Fits(f.AnchorCell, f.Cols, f.Rows) {
		return nil, fmt.Errorf("%w: anchor %d span %dx%d in %dx%d grid",
			ErrOutOfBounds, f.AnchorCell, f.Cols, f.Rows, s.cfg.Columns, s.cfg.Rows)
	}
	return f.Cells(s.cfg), nil
}

// firstConflict returns the lowest-numbered cell in cells claimed by a
// widget other than excluding.
func (s *Store) firstConflict(cells []int, excluding string) (int, string) {
	best := 0
	owner := ""
	for _, cell := range cells {
		id, taken := s.cells[cell]
		if taken && id != excluding && (best == 0 || cell < best) {
			best = cell
			owner = id
		}
	}
	return best, owner
}

// TryPlace atomically claims w's footprint. On any failure the store is
// unchanged and the returned error matches ErrInvalidFootprint,
// ErrOutOfBounds, ErrDuplicateWidget, or ErrOccupied.
func (s *Store) TryPlace(w Widget) error {
	s.mu.Lock()
	cells, err := s.validate(w.Footprint)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if _, exists := s.widgets[w.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateWidget, w.ID)
	}
	if cell, owner := s.firstConflict(cells, ""); cell != 0 {
		s.mu.Unlock()
		return &OccupiedError{Cell: cell, WidgetID: owner}
	}

	stored := w
	for _, cell := range cells {
		s.cells[cell] = w.ID
	}
	s.widgets[w.ID] = &stored
	s.mu.Unlock()

	s.bus.Publish(bus.WidgetPlaced{
		WidgetID:     w.ID,
		DefinitionID: w.DefinitionID,
		AnchorCell:   w.Footprint.AnchorCell,
		Cols:         w.Footprint.Cols,
		Rows:         w.Footprint.Rows,
	})
	return nil
}

// TryMove atomically re-anchors an existing widget. The widget's own
// cells do not block the move, so overlapping relocations succeed. On
// failure the widget keeps its original placement.
func (s *Store) TryMove(id string, newAnchor int) error {
	s.mu.Lock()
	w, ok := s.widgets[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	target := Footprint{AnchorCell: newAnchor, Cols: w.Footprint.Cols, Rows: w.Footprint.Rows}
	newCells, err := s.validate(target)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if cell, owner := s.firstConflict(newCells, id); cell != 0 {
		s.mu.Unlock()
		return &OccupiedError{Cell: cell, WidgetID: owner}
	}

	oldAnchor := w.Footprint.AnchorCell
	for _, cell := range w.Footprint.Cells(s.cfg) {
		delete(s.cells, cell)
	}
	for _, cell := range newCells {
		s.cells[cell] = id
	}
	w.Footprint = target
	s.mu.Unlock()

	if oldAnchor != newAnchor {
		s.bus.Publish(bus.WidgetMoved{WidgetID: id, OldAnchor: oldAnchor, NewAnchor: newAnchor})
	}
	return nil
}

// Remove releases a widget's cells. Removing an absent widget is a
// no-op and publishes nothing.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	w, ok := s.widgets[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	anchor := w.Footprint.AnchorCell
	for _, cell := range w.Footprint.Cells(s.cfg) {
		delete(s.cells, cell)
	}
	delete(s.widgets, id)
	s.mu.Unlock()

	s.bus.Publish(bus.WidgetRemoved{WidgetID: id, AnchorCell: anchor})
}

// WidgetAt returns the ID of the widget covering cell, or "" when the
// cell is empty or out of range.
func (s *Store) WidgetAt(cell int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[cell]
}

// Widget returns a copy of the stored widget.
func (s *Store) Widget(id string) (Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.widgets[id]
	if !ok {
		return Widget{}, false
	}
	return *w, true
}

// IsRegionFree reports whether none of cells is claimed by a widget
// other than excluding. Pass excluding == "" to test against all
// widgets.
func (s *Store) IsRegionFree(cells []int, excluding string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cell, _ := s.firstConflict(cells, excluding)
	return cell == 0
}

// Widgets returns copies of all placed widgets ordered by anchor cell.
func (s *Store) Widgets() []Widget {
	s.mu.Lock()
	out := make([]Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		out = append(out, *w)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Footprint.AnchorCell < out[j].Footprint.AnchorCell
	})
	return out
}

// OccupiedCells returns a snapshot of cell ownership.
func (s *Store) OccupiedCells() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.cells))
	for cell, id := range s.cells {
		out[cell] = id
	}
	return out
}

// Clear removes every widget without publishing per-widget events.
// Used when swapping workspaces wholesale.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cells = make(map[int]string)
	s.widgets = make(map[string]*Widget)
	s.mu.Unlock()
}
