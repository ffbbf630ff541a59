// Package surface composes the placement engine: grid geometry, the
// occupancy store, mode control, gesture classification, and drag
// sessions behind one facade. Rendering layers feed raw pointer events
// in and subscribe to the event bus for everything that changed.
package surface

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/catalog"
	"github.com/benchtop-sh/benchtop/internal/drag"
	"github.com/benchtop-sh/benchtop/internal/gesture"
	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/mode"
	"github.com/benchtop-sh/benchtop/internal/occupancy"
)

// Catalog is the widget type lookup the surface consults for footprint
// sizes and long-press behavior.
type Catalog interface {
	Definition(id string) (catalog.Definition, bool)
}

// SeedWidget is one entry of a persisted widget list.
type SeedWidget struct {
	ID           string
	DefinitionID string
	AnchorCell   int
	Config       map[string]string
}

// Options configures a Surface.
type Options struct {
	Grid        grid.Config
	Gesture     gesture.Config
	EditTimeout time.Duration
	Catalog     Catalog
	Ghost       drag.Ghost
	Logger      *slog.Logger
}

// Surface is the single entry point for one bench's interaction state.
// Pointer methods must be called from one goroutine, mirroring the
// single input stream they represent; queries are safe from anywhere.
type Surface struct {
	log     *slog.Logger
	grid    grid.Config
	catalog Catalog

	bus        *bus.Bus
	store      *occupancy.Store
	modes      *mode.Controller
	classifier *gesture.Classifier
	drags      *drag.Manager
}

func New(opts Options) *Surface {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Surface{
		log:     log,
		grid:    opts.Grid,
		catalog: opts.Catalog,
		bus:     bus.New(),
	}
	s.store = occupancy.NewStore(opts.Grid, s.bus)
	s.modes = mode.NewController(s.bus, opts.EditTimeout)
	s.drags = drag.NewManager(s.store, s.bus, opts.Ghost)
	s.classifier = gesture.NewClassifier(opts.Gesture, s.bus, s.modes,
		s.launchesOnHold, s.startDrag)
	return s
}

func (s *Surface) launchesOnHold(widgetID string) bool {
	w, ok := s.store.Widget(widgetID)
	if !ok {
		return false
	}
	def, ok := s.catalog.Definition(w.DefinitionID)
	return ok && def.LaunchOnHold
}

func (s *Surface) startDrag(widgetID string, p grid.Point) {
	if err := s.drags.Start(widgetID, p); err != nil {
		s.log.Warn("drag start rejected", "widget", widgetID, "error", err)
	}
}

// Bus exposes the event stream for subscribers.
func (s *Surface) Bus() *bus.Bus { return s.bus }

// Grid returns the surface's grid configuration.
func (s *Surface) Grid() grid.Config { return s.grid }

// Mode returns the current interaction mode.
func (s *Surface) Mode() mode.Mode { return s.modes.Current() }

// Widgets returns all placed widgets ordered by anchor cell.
func (s *Surface) Widgets() []occupancy.Widget { return s.store.Widgets() }

// Widget returns a placed widget by ID.
func (s *Surface) Widget(id string) (occupancy.Widget, bool) { return s.store.Widget(id) }

// WidgetAt returns the widget covering cell, or "".
func (s *Surface) WidgetAt(cell int) string { return s.store.WidgetAt(cell) }

// OccupiedCells returns a snapshot of cell ownership.
func (s *Surface) OccupiedCells() map[int]string { return s.store.OccupiedCells() }

// Dragging returns the ID of the widget mid-drag, or "".
func (s *Surface) Dragging() string { return s.drags.Active() }

// AddWidget places a new instance of a catalog definition near
// targetCell, clamping the anchor so the footprint fits. The generated
// widget ID is returned.
func (s *Surface) AddWidget(definitionID string, targetCell int, config map[string]string) (occupancy.Widget, error) {
	def, ok := s.catalog.Definition(definitionID)
	if !ok {
		return occupancy.Widget{}, fmt.Errorf("unknown widget definition %q", definitionID)
	}
	anchor := s.grid.ClampAnchorForFootprint(targetCell, def.Cols, def.Rows)
	if anchor == 0 {
		return occupancy.Widget{}, fmt.Errorf("no anchor for %dx%d footprint near cell %d: %w",
			def.Cols, def.Rows, targetCell, occupancy.ErrOutOfBounds)
	}
	w := occupancy.Widget{
		ID:           uuid.NewString(),
		DefinitionID: definitionID,
		Footprint:    occupancy.Footprint{AnchorCell: anchor, Cols: def.Cols, Rows: def.Rows},
		Config:       config,
	}
	if err := s.store.TryPlace(w); err != nil {
		return occupancy.Widget{}, err
	}
	return w, nil
}

// PlaceWidget places a widget with an explicit ID at an exact anchor,
// for restoring persisted layouts and remote control. No clamping.
func (s *Surface) PlaceWidget(id, definitionID string, anchorCell int, config map[string]string) error {
	def, ok := s.catalog.Definition(definitionID)
	if !ok {
		return fmt.Errorf("unknown widget definition %q", definitionID)
	}
	if id == "" {
		id = uuid.NewString()
	}
	return s.store.TryPlace(occupancy.Widget{
		ID:           id,
		DefinitionID: definitionID,
		Footprint:    occupancy.Footprint{AnchorCell: anchorCell, Cols: def.Cols, Rows: def.Rows},
		Config:       config,
	})
}

// MoveWidget re-anchors a widget, all-or-nothing.
func (s *Surface) MoveWidget(id string, newAnchor int) error {
	return s.store.TryMove(id, newAnchor)
}

// RemoveWidget removes a widget. Removing from edit mode is the delete
// affordance's path and leaves edit mode afterwards.
func (s *Surface) RemoveWidget(id string) {
	s.store.Remove(id)
	if s.modes.Current() == mode.Edit {
		s.modes.ExitEdit()
	}
}

// Seed replaces the surface contents with a persisted widget list.
// Conflicting entries lose to earlier ones: the offender is skipped
// with a log line and seeding continues.
func (s *Surface) Seed(widgets []SeedWidget) {
	s.drags.Cancel()
	s.classifier.PressCancel()
	s.modes.ExitEdit()
	s.store.Clear()
	for _, sw := range widgets {
		if err := s.PlaceWidget(sw.ID, sw.DefinitionID, sw.AnchorCell, sw.Config); err != nil {
			s.log.Warn("skipping widget during seed",
				"widget", sw.ID, "definition", sw.DefinitionID,
				"anchor", sw.AnchorCell, "error", err)
		}
	}
}

// EnterEditMode and ExitEditMode drive the mode machine directly, for
// keyboard shortcuts and remote control.
func (s *Surface) EnterEditMode() { s.modes.EnterEdit() }
func (s *Surface) ExitEditMode()  { s.modes.ExitEdit() }

// PointerDown feeds a press. widgetID is the widget under the pointer
// ("" for background; a background press in edit mode exits it) and
// interactiveChild marks presses on controls inside the widget.
func (s *Surface) PointerDown(widgetID string, p grid.Point, interactiveChild bool) {
	if widgetID == "" {
		s.classifier.PressCancel()
		s.modes.ExitEdit()
		return
	}
	s.classifier.PressStart(widgetID, p, interactiveChild)
}

// PointerMove feeds pointer motion, routed to the drag session once one
// is active.
func (s *Surface) PointerMove(p grid.Point) {
	if s.drags.Active() != "" {
		s.modes.Touch()
		s.drags.Move(p)
		return
	}
	s.classifier.PressMove(p)
}

// PointerUp feeds a release, committing any active drag.
func (s *Surface) PointerUp(p grid.Point) {
	if s.drags.Active() != "" {
		s.classifier.PressCancel()
		s.modes.Touch()
		s.drags.End(p)
		return
	}
	s.classifier.PressRelease(p)
}

// PointerCancel aborts the press or drag in flight, reverting any
// uncommitted movement.
func (s *Surface) PointerCancel() {
	s.classifier.PressCancel()
	s.drags.Cancel()
}
