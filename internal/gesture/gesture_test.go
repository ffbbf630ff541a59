package gesture

import (
	"testing"
	"time"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/mode"
)

// fakeClock records scheduled callbacks so tests decide when timers
// fire, and serves a controllable wall clock.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	fn        func()
	cancelled bool
}

func (fc *fakeClock) schedule(_ time.Duration, fn func()) func() {
	t := &fakeTimer{fn: fn}
	fc.timers = append(fc.timers, t)
	return func() { t.cancelled = true }
}

// fireAll runs every live timer scheduled so far.
func (fc *fakeClock) fireAll() {
	for i := 0; i < len(fc.timers); i++ {
		t := fc.timers[i]
		if !t.cancelled {
			t.cancelled = true
			t.fn()
		}
	}
}

func (fc *fakeClock) advance(d time.Duration) { fc.now = fc.now.Add(d) }

type fixture struct {
	clock      *fakeClock
	bus        *bus.Bus
	modes      *mode.Controller
	classifier *Classifier

	clicks       []string
	doubleClicks []string
	longPresses  []bus.LongPressed
	dragStarts   []string
}

func newFixture(t *testing.T, launchTrigger func(string) bool) *fixture {
	t.Helper()
	f := &fixture{
		clock: &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		bus:   bus.New(),
	}
	f.modes = mode.NewController(f.bus, 0)
	f.classifier = NewClassifier(DefaultConfig(), f.bus, f.modes, launchTrigger,
		func(widgetID string, _ grid.Point) {
			f.dragStarts = append(f.dragStarts, widgetID)
		})
	f.classifier.schedule = f.clock.schedule
	f.classifier.now = func() time.Time { return f.clock.now }

	f.bus.Subscribe(func(ev bus.Event) {
		switch e := ev.(type) {
		case bus.Clicked:
			f.clicks = append(f.clicks, e.WidgetID)
		case bus.DoubleClicked:
			f.doubleClicks = append(f.doubleClicks, e.WidgetID)
		case bus.LongPressed:
			f.longPresses = append(f.longPresses, e)
		}
	})
	return f
}

func (f *fixture) click(widgetID string, p grid.Point) {
	f.classifier.PressStart(widgetID, p, false)
	f.classifier.PressRelease(p)
}

func TestSingleClickEmitsImmediately(t *testing.T) {
	f := newFixture(t, nil)

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, false)
	f.classifier.PressRelease(grid.Point{X: 52, Y: 51})

	if len(f.clicks) != 1 || f.clicks[0] != "w1" {
		t.Errorf("clicks = %v, want [w1]", f.clicks)
	}
	if len(f.doubleClicks) != 0 || len(f.longPresses) != 0 {
		t.Errorf("unexpected extra gestures: doubles=%v longs=%v", f.doubleClicks, f.longPresses)
	}
}

func TestSecondRapidClickBecomesDoubleClick(t *testing.T) {
	f := newFixture(t, nil)

	p := grid.Point{X: 50, Y: 50}
	f.click("w1", p)
	f.clock.advance(100 * time.Millisecond)
	f.click("w1", p)

	if len(f.doubleClicks) != 1 || f.doubleClicks[0] != "w1" {
		t.Errorf("doubleClicks = %v, want [w1]", f.doubleClicks)
	}
	// the second release contributes no single click
	if len(f.clicks) != 1 {
		t.Errorf("clicks = %v, want exactly the first click", f.clicks)
	}
}

func TestSlowSecondClickStaysSingle(t *testing.T) {
	f := newFixture(t, nil)

	p := grid.Point{X: 50, Y: 50}
	f.click("w1", p)
	f.clock.advance(400 * time.Millisecond)
	f.click("w1", p)

	if len(f.clicks) != 2 {
		t.Errorf("clicks = %v, want two singles", f.clicks)
	}
	if len(f.doubleClicks) != 0 {
		t.Errorf("doubleClicks = %v, want none", f.doubleClicks)
	}
}

func TestRapidClicksOnDifferentWidgetsStaySingle(t *testing.T) {
	f := newFixture(t, nil)

	f.click("w1", grid.Point{X: 50, Y: 50})
	f.clock.advance(50 * time.Millisecond)
	f.click("w2", grid.Point{X: 200, Y: 50})

	if len(f.doubleClicks) != 0 {
		t.Errorf("doubleClicks = %v, want none", f.doubleClicks)
	}
	if len(f.clicks) != 2 {
		t.Errorf("clicks = %v, want [w1 w2]", f.clicks)
	}
}

func TestStaleClickRecordsArePruned(t *testing.T) {
	f := newFixture(t, nil)

	for i := 0; i < 50; i++ {
		f.click(string(rune('a'+i%26))+"-widget", grid.Point{X: 50, Y: 50})
		f.clock.advance(400 * time.Millisecond)
	}
	f.click("w-final", grid.Point{X: 50, Y: 50})

	f.classifier.mu.Lock()
	n := len(f.classifier.lastClick)
	f.classifier.mu.Unlock()
	if n != 1 {
		t.Errorf("lastClick holds %d entries, want only the most recent", n)
	}
}

func TestLongPressEntersEditMode(t *testing.T) {
	f := newFixture(t, nil)

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, false)
	f.clock.fireAll() // long-press threshold elapses while held

	if f.modes.Current() != mode.Edit {
		t.Fatalf("mode = %v, want Edit", f.modes.Current())
	}
	if len(f.longPresses) != 1 || f.longPresses[0].Launch {
		t.Fatalf("longPresses = %+v, want one non-launch", f.longPresses)
	}

	// releasing after the long press resolved must not also click
	f.classifier.PressRelease(grid.Point{X: 50, Y: 50})
	if len(f.clicks) != 0 {
		t.Errorf("clicks = %v, want none after long press", f.clicks)
	}
}

func TestLongPressLaunchSkipsEditMode(t *testing.T) {
	f := newFixture(t, func(widgetID string) bool { return widgetID == "launcher" })

	f.classifier.PressStart("launcher", grid.Point{X: 50, Y: 50}, false)
	f.clock.fireAll()

	if f.modes.Current() != mode.Normal {
		t.Errorf("mode = %v, want Normal for launch widget", f.modes.Current())
	}
	if len(f.longPresses) != 1 || !f.longPresses[0].Launch {
		t.Errorf("longPresses = %+v, want one launch", f.longPresses)
	}
}

func TestMovementCancelsLongPress(t *testing.T) {
	f := newFixture(t, nil)

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, false)
	f.classifier.PressMove(grid.Point{X: 80, Y: 50})
	f.clock.fireAll()

	if len(f.longPresses) != 0 {
		t.Errorf("longPresses = %+v, want none after movement", f.longPresses)
	}
	if f.modes.Current() != mode.Normal {
		t.Errorf("mode = %v, want Normal", f.modes.Current())
	}

	// a moved press in normal mode resolves to nothing on release
	f.classifier.PressRelease(grid.Point{X: 80, Y: 50})
	if len(f.clicks) != 0 {
		t.Errorf("clicks = %v, want none", f.clicks)
	}
	if len(f.dragStarts) != 0 {
		t.Errorf("dragStarts = %v, want none in normal mode", f.dragStarts)
	}
}

func TestMovementWithinToleranceStillClicks(t *testing.T) {
	f := newFixture(t, nil)

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, false)
	f.classifier.PressMove(grid.Point{X: 53, Y: 48})
	f.classifier.PressRelease(grid.Point{X: 53, Y: 48})

	if len(f.clicks) != 1 {
		t.Errorf("clicks = %v, want [w1]", f.clicks)
	}
}

func TestDragStartsInEditMode(t *testing.T) {
	f := newFixture(t, nil)
	f.modes.EnterEdit()

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, false)
	f.classifier.PressMove(grid.Point{X: 70, Y: 50})
	f.classifier.PressMove(grid.Point{X: 90, Y: 50})

	if len(f.dragStarts) != 1 || f.dragStarts[0] != "w1" {
		t.Errorf("dragStarts = %v, want exactly [w1]", f.dragStarts)
	}
}

func TestLongPressThenMoveStartsDrag(t *testing.T) {
	f := newFixture(t, nil)

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, false)
	f.clock.fireAll() // long press enters edit mode
	f.classifier.PressMove(grid.Point{X: 90, Y: 50})

	if len(f.dragStarts) != 1 || f.dragStarts[0] != "w1" {
		t.Errorf("dragStarts = %v, want [w1] after long press and move", f.dragStarts)
	}
}

func TestClicksSuppressedInEditMode(t *testing.T) {
	f := newFixture(t, nil)
	f.modes.EnterEdit()

	f.click("w1", grid.Point{X: 50, Y: 50})

	if len(f.clicks) != 0 || len(f.doubleClicks) != 0 {
		t.Errorf("edit mode produced clicks=%v doubles=%v", f.clicks, f.doubleClicks)
	}
}

func TestInteractiveChildPressesPassThrough(t *testing.T) {
	f := newFixture(t, nil)

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, true)
	f.clock.fireAll() // no long press scheduled
	f.classifier.PressRelease(grid.Point{X: 50, Y: 50})

	if len(f.clicks) != 0 || len(f.longPresses) != 0 {
		t.Errorf("interactive child produced clicks=%v longs=%v", f.clicks, f.longPresses)
	}
	if f.modes.Current() != mode.Normal {
		t.Errorf("mode = %v, want Normal", f.modes.Current())
	}
}

func TestPressCancelDropsGesture(t *testing.T) {
	f := newFixture(t, nil)

	f.classifier.PressStart("w1", grid.Point{X: 50, Y: 50}, false)
	f.classifier.PressCancel()
	f.clock.fireAll()
	f.classifier.PressRelease(grid.Point{X: 50, Y: 50})

	if len(f.clicks) != 0 || len(f.longPresses) != 0 {
		t.Errorf("cancelled press produced clicks=%v longs=%v", f.clicks, f.longPresses)
	}
}

func TestStragglerMoveAfterReleaseIgnored(t *testing.T) {
	f := newFixture(t, nil)

	f.click("w1", grid.Point{X: 50, Y: 50})
	f.classifier.PressMove(grid.Point{X: 300, Y: 300})

	if len(f.dragStarts) != 0 {
		t.Errorf("dragStarts = %v, want none for straggler move", f.dragStarts)
	}
}
