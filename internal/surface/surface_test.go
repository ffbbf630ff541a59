package surface

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/catalog"
	"github.com/benchtop-sh/benchtop/internal/gesture"
	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/mode"
	"github.com/benchtop-sh/benchtop/internal/occupancy"
)

func testSurface(t *testing.T) *Surface {
	t.Helper()
	cat, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return New(Options{
		Grid:    grid.Config{Columns: 6, Rows: 5, CellWidth: 100, CellHeight: 80, Gap: 10},
		Gesture: gesture.Config{LongPress: 25 * time.Millisecond, DoubleClick: 300 * time.Millisecond, MoveTolerance: 5},
		Catalog: cat,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func pointerIn(s *Surface, cell int) grid.Point {
	r := s.Grid().CellRect(cell)
	return grid.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// grabAt returns the top-left pixel of a cell, so a drag grabbed there
// carries a predictable pointer offset.
func grabAt(s *Surface, cell int) grid.Point {
	return s.Grid().CellOrigin(cell)
}

// dropAt returns a point 10px right of a cell's origin. Paired with a
// drag started 10px right of the grab cell's origin, the snapped anchor
// is exactly cell.
func dropAt(s *Surface, cell int) grid.Point {
	o := s.Grid().CellOrigin(cell)
	return grid.Point{X: o.X + 10, Y: o.Y}
}

func TestAddWidgetClampsAnchor(t *testing.T) {
	s := testSurface(t)

	// chemical-inventory is 2x2; cell 6 is the last column so the
	// anchor must shift left to 5
	w, err := s.AddWidget("chemical-inventory", 6, nil)
	if err != nil {
		t.Fatalf("AddWidget: %v", err)
	}
	if w.Footprint.AnchorCell != 5 {
		t.Errorf("anchor = %d, want clamped 5", w.Footprint.AnchorCell)
	}
	if w.ID == "" {
		t.Error("AddWidget did not assign an ID")
	}
	if got := s.WidgetAt(6); got != w.ID {
		t.Errorf("WidgetAt(6) = %q, want %q", got, w.ID)
	}
}

func TestAddWidgetUnknownDefinition(t *testing.T) {
	s := testSurface(t)
	if _, err := s.AddWidget("no-such-widget", 1, nil); err == nil {
		t.Fatal("AddWidget with unknown definition succeeded")
	}
}

func TestSeedRoundTrip(t *testing.T) {
	s := testSurface(t)

	in := []SeedWidget{
		{ID: "a", DefinitionID: "chemical-inventory", AnchorCell: 9},
		{ID: "b", DefinitionID: "experiment-timer", AnchorCell: 1, Config: map[string]string{"duration": "45m"}},
		{ID: "c", DefinitionID: "equipment-status", AnchorCell: 25},
	}
	s.Seed(in)

	got := s.Widgets()
	if len(got) != 3 {
		t.Fatalf("got %d widgets, want 3", len(got))
	}
	byID := make(map[string]occupancy.Widget)
	for _, w := range got {
		byID[w.ID] = w
	}
	for _, sw := range in {
		w, ok := byID[sw.ID]
		if !ok {
			t.Fatalf("widget %s missing after seed", sw.ID)
		}
		if w.Footprint.AnchorCell != sw.AnchorCell {
			t.Errorf("widget %s anchor = %d, want %d", sw.ID, w.Footprint.AnchorCell, sw.AnchorCell)
		}
	}
	if byID["b"].Config["duration"] != "45m" {
		t.Errorf("widget b config lost: %+v", byID["b"].Config)
	}
}

func TestSeedConflictFirstWins(t *testing.T) {
	s := testSurface(t)

	s.Seed([]SeedWidget{
		{ID: "first", DefinitionID: "chemical-inventory", AnchorCell: 9},
		{ID: "second", DefinitionID: "experiment-timer", AnchorCell: 10},
		{ID: "third", DefinitionID: "experiment-timer", AnchorCell: 1},
	})

	if got := s.WidgetAt(10); got != "first" {
		t.Errorf("WidgetAt(10) = %q, want first", got)
	}
	if _, ok := s.Widget("second"); ok {
		t.Error("conflicting seed entry was placed")
	}
	if _, ok := s.Widget("third"); !ok {
		t.Error("seeding stopped instead of skipping the conflict")
	}
}

func TestSeedReplacesPreviousContents(t *testing.T) {
	s := testSurface(t)
	s.Seed([]SeedWidget{{ID: "old", DefinitionID: "experiment-timer", AnchorCell: 1}})
	s.Seed([]SeedWidget{{ID: "new", DefinitionID: "experiment-timer", AnchorCell: 2}})

	if _, ok := s.Widget("old"); ok {
		t.Error("previous contents survived reseeding")
	}
	if got := s.WidgetAt(1); got != "" {
		t.Errorf("cell 1 = %q, want empty", got)
	}
	if got := s.WidgetAt(2); got != "new" {
		t.Errorf("cell 2 = %q, want new", got)
	}
}

func TestPointerDragMovesWidgetInEditMode(t *testing.T) {
	s := testSurface(t)
	s.Seed([]SeedWidget{{ID: "w1", DefinitionID: "chemical-inventory", AnchorCell: 9}})
	s.EnterEditMode()

	var ended []bus.DragEnded
	s.Bus().Subscribe(func(ev bus.Event) {
		if e, ok := ev.(bus.DragEnded); ok {
			ended = append(ended, e)
		}
	})

	start := grabAt(s, 9)
	s.PointerDown("w1", start, false)
	// 10px of travel exceeds the tolerance and starts the drag with a
	// 10px grab offset
	s.PointerMove(grid.Point{X: start.X + 10, Y: start.Y})
	if s.Dragging() != "w1" {
		t.Fatalf("Dragging() = %q, want w1", s.Dragging())
	}
	s.PointerMove(dropAt(s, 14))
	s.PointerUp(dropAt(s, 20))

	w, _ := s.Widget("w1")
	if w.Footprint.AnchorCell != 20 {
		t.Errorf("anchor = %d, want 20", w.Footprint.AnchorCell)
	}
	if len(ended) != 1 || !ended[0].Committed {
		t.Errorf("ended = %+v, want one committed", ended)
	}
	if s.Dragging() != "" {
		t.Errorf("Dragging() = %q after release, want empty", s.Dragging())
	}
}

func TestPointerCancelRevertsDrag(t *testing.T) {
	s := testSurface(t)
	s.Seed([]SeedWidget{{ID: "w1", DefinitionID: "chemical-inventory", AnchorCell: 9}})
	s.EnterEditMode()

	s.PointerDown("w1", grabAt(s, 9), false)
	s.PointerMove(dropAt(s, 20))
	s.PointerCancel()

	w, _ := s.Widget("w1")
	if w.Footprint.AnchorCell != 9 {
		t.Errorf("anchor = %d, want revert to 9", w.Footprint.AnchorCell)
	}
}

func TestBackgroundPressExitsEditMode(t *testing.T) {
	s := testSurface(t)
	s.EnterEditMode()

	s.PointerDown("", grid.Point{X: 5, Y: 5}, false)

	if s.Mode() != mode.Normal {
		t.Errorf("mode = %v, want Normal after background press", s.Mode())
	}
}

func TestRemoveWidgetExitsEditMode(t *testing.T) {
	s := testSurface(t)
	s.Seed([]SeedWidget{{ID: "w1", DefinitionID: "experiment-timer", AnchorCell: 1}})
	s.EnterEditMode()

	s.RemoveWidget("w1")

	if _, ok := s.Widget("w1"); ok {
		t.Error("widget survived removal")
	}
	if s.Mode() != mode.Normal {
		t.Errorf("mode = %v, want Normal after delete", s.Mode())
	}
}

func TestLongPressOnLauncherEmitsLaunch(t *testing.T) {
	s := testSurface(t)
	s.Seed([]SeedWidget{{ID: "eln", DefinitionID: "eln-launcher", AnchorCell: 1}})

	var long []bus.LongPressed
	s.Bus().Subscribe(func(ev bus.Event) {
		if e, ok := ev.(bus.LongPressed); ok {
			long = append(long, e)
		}
	})

	s.PointerDown("eln", pointerIn(s, 1), false)
	time.Sleep(100 * time.Millisecond)
	s.PointerUp(pointerIn(s, 1))

	if len(long) != 1 || !long[0].Launch {
		t.Fatalf("long presses = %+v, want one launch", long)
	}
	if s.Mode() != mode.Normal {
		t.Errorf("mode = %v, want Normal for launcher hold", s.Mode())
	}
}

func TestLongPressEntersEditThroughPointerPath(t *testing.T) {
	s := testSurface(t)
	s.Seed([]SeedWidget{{ID: "w1", DefinitionID: "protocol-notes", AnchorCell: 9}})

	s.PointerDown("w1", pointerIn(s, 9), false)
	time.Sleep(100 * time.Millisecond)
	s.PointerUp(pointerIn(s, 9))

	if s.Mode() != mode.Edit {
		t.Errorf("mode = %v, want Edit after long press", s.Mode())
	}
}

func TestMoveWidgetErrorsSurface(t *testing.T) {
	s := testSurface(t)
	s.Seed([]SeedWidget{
		{ID: "a", DefinitionID: "chemical-inventory", AnchorCell: 9},
		{ID: "b", DefinitionID: "experiment-timer", AnchorCell: 21},
	})

	err := s.MoveWidget("a", 20)
	if !errors.Is(err, occupancy.ErrOccupied) {
		t.Fatalf("got %v, want ErrOccupied", err)
	}
	w, _ := s.Widget("a")
	if w.Footprint.AnchorCell != 9 {
		t.Errorf("anchor = %d, want unchanged 9", w.Footprint.AnchorCell)
	}
}
