// Package catalog defines the widget types that can be placed on the
// bench surface. Definitions carry the footprint size and interaction
// traits the engine needs; the builtin set covers the stock lab widgets
// and can be extended or overridden from configuration.
package catalog

import (
	"fmt"
	"sort"
)

// Definition describes one placeable widget type.
type Definition struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Cols  int    `yaml:"cols" json:"cols"`
	Rows  int    `yaml:"rows" json:"rows"`
	// LaunchOnHold makes a long press open the widget's application
	// instead of entering edit mode.
	LaunchOnHold bool `yaml:"launch_on_hold,omitempty" json:"launch_on_hold,omitempty"`
	// App names the application a launcher widget opens.
	App string `yaml:"app,omitempty" json:"app,omitempty"`
}

// Builtin returns the stock widget definitions.
func Builtin() []Definition {
	return []Definition{
		{ID: "chemical-inventory", Title: "Chemical Inventory", Cols: 2, Rows: 2},
		{ID: "equipment-status", Title: "Equipment Status", Cols: 2, Rows: 1},
		{ID: "experiment-timer", Title: "Experiment Timer", Cols: 1, Rows: 1},
		{ID: "protocol-notes", Title: "Protocol Notes", Cols: 2, Rows: 2},
		{ID: "sample-tracker", Title: "Sample Tracker", Cols: 1, Rows: 2},
		{ID: "eln-launcher", Title: "Lab Notebook", Cols: 1, Rows: 1, LaunchOnHold: true, App: "eln"},
		{ID: "lims-launcher", Title: "LIMS", Cols: 1, Rows: 1, LaunchOnHold: true, App: "lims"},
	}
}

// Catalog is an immutable, ID-indexed set of definitions.
type Catalog struct {
	byID  map[string]Definition
	order []string
}

// New builds a catalog from the builtin definitions plus extras.
// Extras with an ID already present replace the builtin entry; a new ID
// is appended. Extras with invalid footprints are rejected.
func New(extras ...Definition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Definition)}
	for _, d := range Builtin() {
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	for _, d := range extras {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog: definition with empty id")
		}
		if d.Cols < 1 || d.Rows < 1 {
			return nil, fmt.Errorf("catalog: definition %s has invalid footprint %dx%d", d.ID, d.Cols, d.Rows)
		}
		if _, exists := c.byID[d.ID]; !exists {
			c.order = append(c.order, d.ID)
		}
		c.byID[d.ID] = d
	}
	return c, nil
}

// Definition looks up a widget type by ID.
func (c *Catalog) Definition(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Definitions returns all entries, builtins first in declaration order,
// then extras sorted by ID.
func (c *Catalog) Definitions() []Definition {
	builtinCount := len(Builtin())
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	if len(ids) > builtinCount {
		sort.Strings(ids[builtinCount:])
	}
	out := make([]Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.byID[id])
	}
	return out
}
