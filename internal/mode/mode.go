// Package mode implements the surface's interaction mode state machine.
// The surface is either in normal mode, where clicks and long presses
// act on widget content, or in edit mode, where widgets wiggle and can
// be dragged or deleted.
package mode

import (
	"sync"
	"time"

	"github.com/benchtop-sh/benchtop/internal/bus"
)

// Mode identifies the surface interaction mode.
type Mode int

const (
	Normal Mode = iota
	Edit
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Edit:
		return "edit"
	default:
		return "unknown"
	}
}

// Controller owns the current mode and the optional edit-mode idle
// timeout. All methods are safe for concurrent use.
type Controller struct {
	bus     *bus.Bus
	timeout time.Duration // 0 disables the idle timeout

	mu      sync.Mutex
	current Mode
	timer   *time.Timer
}

// NewController returns a controller starting in normal mode. When
// timeout is positive, edit mode exits automatically after that long
// without a Touch.
func NewController(b *bus.Bus, timeout time.Duration) *Controller {
	return &Controller{bus: b, timeout: timeout}
}

// Current returns the active mode.
func (c *Controller) Current() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// EnterEdit transitions to edit mode. Entering while already in edit
// mode resets the idle timer but publishes nothing.
func (c *Controller) EnterEdit() {
	c.mu.Lock()
	already := c.current == Edit
	c.current = Edit
	c.resetTimerLocked()
	c.mu.Unlock()

	if !already {
		c.bus.Publish(bus.ModeChanged{Mode: Edit.String()})
	}
}

// ExitEdit transitions to normal mode. Exiting while already in normal
// mode is a no-op.
func (c *Controller) ExitEdit() {
	c.mu.Lock()
	if c.current == Normal {
		c.mu.Unlock()
		return
	}
	c.current = Normal
	c.stopTimerLocked()
	c.mu.Unlock()

	c.bus.Publish(bus.ModeChanged{Mode: Normal.String()})
}

// Touch marks edit-mode activity, pushing back the idle timeout. Calls
// in normal mode are ignored.
func (c *Controller) Touch() {
	c.mu.Lock()
	if c.current == Edit {
		c.resetTimerLocked()
	}
	c.mu.Unlock()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) resetTimerLocked() {
	c.stopTimerLocked()
	if c.timeout <= 0 {
		return
	}
	c.timer = time.AfterFunc(c.timeout, c.ExitEdit)
}
