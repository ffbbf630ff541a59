package catalog

import "testing"

func TestBuiltinLookup(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d, ok := c.Definition("chemical-inventory")
	if !ok {
		t.Fatal("chemical-inventory missing from builtin catalog")
	}
	if d.Cols != 2 || d.Rows != 2 {
		t.Errorf("chemical-inventory footprint = %dx%d, want 2x2", d.Cols, d.Rows)
	}

	if _, ok := c.Definition("no-such-widget"); ok {
		t.Error("lookup of unknown id succeeded")
	}
}

func TestLaunchersMarked(t *testing.T) {
	c, _ := New()
	d, ok := c.Definition("eln-launcher")
	if !ok || !d.LaunchOnHold || d.App != "eln" {
		t.Errorf("eln-launcher = %+v, want launch-on-hold app eln", d)
	}
	d, _ = c.Definition("experiment-timer")
	if d.LaunchOnHold {
		t.Error("experiment-timer should not launch on hold")
	}
}

func TestExtrasOverrideAndExtend(t *testing.T) {
	c, err := New(
		Definition{ID: "experiment-timer", Title: "Countdown", Cols: 2, Rows: 1},
		Definition{ID: "ph-meter", Title: "pH Meter", Cols: 1, Rows: 1},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d, _ := c.Definition("experiment-timer")
	if d.Title != "Countdown" || d.Cols != 2 {
		t.Errorf("override not applied: %+v", d)
	}
	if _, ok := c.Definition("ph-meter"); !ok {
		t.Error("extra definition ph-meter missing")
	}

	defs := c.Definitions()
	if len(defs) != len(Builtin())+1 {
		t.Errorf("got %d definitions, want %d", len(defs), len(Builtin())+1)
	}
}

func TestInvalidExtrasRejected(t *testing.T) {
	if _, err := New(Definition{ID: "", Cols: 1, Rows: 1}); err == nil {
		t.Error("empty id accepted")
	}
	if _, err := New(Definition{ID: "bad", Cols: 0, Rows: 1}); err == nil {
		t.Error("zero-column footprint accepted")
	}
}
