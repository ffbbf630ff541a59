// Package gesture turns raw pointer press/move/release input into click,
// double-click, long-press, and drag-start decisions. One press is
// tracked at a time. Clicks are emitted immediately on release; a second
// stationary release within the double-click window upgrades to a double
// click and emits no second single click.
package gesture

import (
	"sync"
	"time"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/mode"
)

// Config holds the classification thresholds.
type Config struct {
	LongPress     time.Duration // hold time before a press becomes a long press
	DoubleClick   time.Duration // max delay between clicks of a double click
	MoveTolerance int           // pixels a press may wander and still count as stationary
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		LongPress:     500 * time.Millisecond,
		DoubleClick:   300 * time.Millisecond,
		MoveTolerance: 5,
	}
}

type press struct {
	seq              int
	widgetID         string
	origin           grid.Point
	interactiveChild bool
	moved            bool
	longPressFired   bool
	dragStarted      bool
	cancelLongPress  func()
}

// Classifier tracks the active press and resolves it into gestures.
// Outcomes are published on the bus; drag starts are reported through
// the onDragStart callback so the drag session owner can take over the
// pointer stream.
type Classifier struct {
	cfg   Config
	bus   *bus.Bus
	modes *mode.Controller

	// launchTrigger reports whether a widget handles long press itself
	// instead of entering edit mode. May be nil.
	launchTrigger func(widgetID string) bool
	onDragStart   func(widgetID string, p grid.Point)

	// schedule and now are swapped out in tests for deterministic timing.
	schedule func(d time.Duration, fn func()) (cancel func())
	now      func() time.Time

	mu        sync.Mutex
	seq       int
	active    *press
	lastClick map[string]time.Time // widget ID -> time of its last single click
}

func NewClassifier(cfg Config, b *bus.Bus, modes *mode.Controller,
	launchTrigger func(string) bool, onDragStart func(string, grid.Point)) *Classifier {
	return &Classifier{
		cfg:           cfg,
		bus:           b,
		modes:         modes,
		launchTrigger: launchTrigger,
		onDragStart:   onDragStart,
		schedule: func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		},
		now:       time.Now,
		lastClick: make(map[string]time.Time),
	}
}

// PressStart begins tracking a press on a widget. interactiveChild
// marks presses that landed on a control inside the widget; those pass
// through to the control and never resolve to a surface gesture. A
// press that arrives while another is tracked replaces it.
func (c *Classifier) PressStart(widgetID string, p grid.Point, interactiveChild bool) {
	c.mu.Lock()
	c.cancelActiveLocked()
	c.seq++
	pr := &press{
		seq:              c.seq,
		widgetID:         widgetID,
		origin:           p,
		interactiveChild: interactiveChild,
	}
	c.active = pr
	if widgetID != "" && !interactiveChild {
		seq := pr.seq
		pr.cancelLongPress = c.schedule(c.cfg.LongPress, func() { c.fireLongPress(seq) })
	}
	c.mu.Unlock()

	c.modes.Touch()
}

// PressMove feeds pointer motion into the active press. Motion past the
// tolerance cancels the long press; in edit mode, or after a long press
// has already fired, it starts a drag.
func (c *Classifier) PressMove(p grid.Point) {
	c.mu.Lock()
	pr := c.active
	if pr == nil {
		c.mu.Unlock()
		return
	}
	if !exceedsTolerance(pr.origin, p, c.cfg.MoveTolerance) {
		c.mu.Unlock()
		return
	}
	pr.moved = true
	if pr.cancelLongPress != nil {
		pr.cancelLongPress()
		pr.cancelLongPress = nil
	}

	startDrag := false
	if !pr.dragStarted && !pr.interactiveChild && pr.widgetID != "" {
		if pr.longPressFired || c.modes.Current() == mode.Edit {
			pr.dragStarted = true
			startDrag = true
		}
	}
	widgetID := pr.widgetID
	c.mu.Unlock()

	if startDrag && c.onDragStart != nil {
		c.onDragStart(widgetID, p)
	}
}

// PressRelease ends the active press. A stationary release in normal
// mode emits a click right away; a second one on the same widget inside
// the double-click window emits a double click instead.
func (c *Classifier) PressRelease(p grid.Point) {
	c.mu.Lock()
	pr := c.active
	c.active = nil
	if pr == nil {
		c.mu.Unlock()
		return
	}
	if pr.cancelLongPress != nil {
		pr.cancelLongPress()
		pr.cancelLongPress = nil
	}
	if pr.widgetID == "" || pr.interactiveChild || pr.moved || pr.longPressFired || pr.dragStarted {
		c.mu.Unlock()
		return
	}
	if c.modes.Current() == mode.Edit {
		// clicks act on placement while editing, never on content
		c.mu.Unlock()
		return
	}

	widgetID := pr.widgetID
	now := c.now()
	if last, ok := c.lastClick[widgetID]; ok && now.Sub(last) <= c.cfg.DoubleClick {
		delete(c.lastClick, widgetID)
		c.mu.Unlock()
		c.bus.Publish(bus.DoubleClicked{WidgetID: widgetID})
		return
	}
	// Entries outside the double-click window can never upgrade a click,
	// so drop them; the map only ever holds the last window's worth.
	for id, ts := range c.lastClick {
		if now.Sub(ts) > c.cfg.DoubleClick {
			delete(c.lastClick, id)
		}
	}
	c.lastClick[widgetID] = now
	c.mu.Unlock()

	c.bus.Publish(bus.Clicked{WidgetID: widgetID})
}

// PressCancel drops the active press without resolving a gesture.
func (c *Classifier) PressCancel() {
	c.mu.Lock()
	c.cancelActiveLocked()
	c.mu.Unlock()
}

func (c *Classifier) cancelActiveLocked() {
	if c.active != nil && c.active.cancelLongPress != nil {
		c.active.cancelLongPress()
	}
	c.active = nil
}

func (c *Classifier) fireLongPress(seq int) {
	c.mu.Lock()
	pr := c.active
	if pr == nil || pr.seq != seq || pr.moved {
		c.mu.Unlock()
		return
	}
	pr.longPressFired = true
	widgetID := pr.widgetID
	c.mu.Unlock()

	launch := c.modes.Current() == mode.Normal &&
		c.launchTrigger != nil && c.launchTrigger(widgetID)
	if !launch {
		c.modes.EnterEdit()
	}
	c.bus.Publish(bus.LongPressed{WidgetID: widgetID, Launch: launch})
}

func exceedsTolerance(origin, p grid.Point, tol int) bool {
	dx := p.X - origin.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - origin.Y
	if dy < 0 {
		dy = -dy
	}
	return dx > tol || dy > tol
}
