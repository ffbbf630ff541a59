// Package bus carries the typed events the placement engine emits:
// widget lifecycle, mode transitions, gesture outcomes, and drag
// previews. Subscribers receive events synchronously in publish order,
// so a handler observes the store state that produced the event.
package bus

import (
	"sort"
	"sync"
)

// Event is a marker for the event structs below.
type Event interface{}

// WidgetPlaced is published after a widget is committed to the surface.
type WidgetPlaced struct {
	WidgetID     string
	DefinitionID string
	AnchorCell   int
	Cols         int
	Rows         int
}

// WidgetMoved is published after a widget's anchor changes.
type WidgetMoved struct {
	WidgetID  string
	OldAnchor int
	NewAnchor int
}

// WidgetRemoved is published after a widget leaves the surface.
type WidgetRemoved struct {
	WidgetID   string
	AnchorCell int
}

// ModeChanged is published on every surface mode transition.
type ModeChanged struct {
	Mode string
}

// Clicked is published for a resolved single click on a widget.
type Clicked struct {
	WidgetID string
}

// DoubleClicked is published for a resolved double click on a widget.
type DoubleClicked struct {
	WidgetID string
}

// LongPressed is published when a press crosses the long-press
// threshold without moving. Launch is true when the widget asked for a
// long-press launch action instead of the edit-mode transition.
type LongPressed struct {
	WidgetID string
	Launch   bool
}

// DragPreview is published whenever an active drag's snapped anchor
// changes. Valid reports whether dropping at Anchor would succeed.
type DragPreview struct {
	WidgetID string
	Anchor   int
	Cells    []int
	Valid    bool
}

// DragEnded is published when a drag session finishes. Committed is
// false when the drop was rejected or the drag was cancelled; Anchor is
// the widget's anchor after the session either way.
type DragEnded struct {
	WidgetID  string
	Committed bool
	Anchor    int
}

// WorkspaceSwitched is published after the active workspace changes.
type WorkspaceSwitched struct {
	Name string
}

// ConfigReloaded is published after the configuration file is reloaded.
type ConfigReloaded struct {
	Path string
}

// Bus fans events out to subscribers. The zero value is not usable;
// construct with New.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func New() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn for all events and returns a function that
// removes the subscription. fn is invoked on the publisher's goroutine.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers ev to every subscriber in registration order.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	// map iteration order is random; deliver in registration order
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
