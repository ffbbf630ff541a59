package desk

import (
	"sync"

	"github.com/benchtop-sh/benchtop/internal/grid"
)

// ghostState tracks the snapped outline shown while a widget is
// dragged. The drag manager drives it synchronously from the UI loop;
// the mutex covers reads from View while timer-driven events land.
type ghostState struct {
	mu       sync.Mutex
	widgetID string
	rect     grid.Rect
	visible  bool
}

func (g *ghostState) Detach(widgetID string, r grid.Rect) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.widgetID = widgetID
	g.rect = r
	g.visible = true
}

func (g *ghostState) MoveTo(widgetID string, r grid.Rect) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if widgetID != g.widgetID {
		return
	}
	g.rect = r
}

func (g *ghostState) Attach(widgetID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if widgetID != g.widgetID {
		return
	}
	g.widgetID = ""
	g.visible = false
}

// snapshot returns the current outline, if any.
func (g *ghostState) snapshot() (string, grid.Rect, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.widgetID, g.rect, g.visible
}
