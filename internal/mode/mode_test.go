package mode

import (
	"testing"
	"time"

	"github.com/benchtop-sh/benchtop/internal/bus"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		m    Mode
		want string
	}{
		{Normal, "normal"},
		{Edit, "edit"},
		{Mode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestEnterAndExitEdit(t *testing.T) {
	b := bus.New()
	var changes []string
	b.Subscribe(func(ev bus.Event) {
		if mc, ok := ev.(bus.ModeChanged); ok {
			changes = append(changes, mc.Mode)
		}
	})

	c := NewController(b, 0)
	if c.Current() != Normal {
		t.Fatalf("initial mode = %v, want Normal", c.Current())
	}

	c.EnterEdit()
	if c.Current() != Edit {
		t.Fatalf("after EnterEdit mode = %v, want Edit", c.Current())
	}
	c.EnterEdit() // no duplicate broadcast
	c.ExitEdit()
	if c.Current() != Normal {
		t.Fatalf("after ExitEdit mode = %v, want Normal", c.Current())
	}
	c.ExitEdit() // no duplicate broadcast

	want := []string{"edit", "normal"}
	if len(changes) != len(want) {
		t.Fatalf("got %d ModeChanged events %v, want %v", len(changes), changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %q, want %q", i, changes[i], want[i])
		}
	}
}

func TestIdleTimeoutExitsEdit(t *testing.T) {
	b := bus.New()
	done := make(chan struct{})
	b.Subscribe(func(ev bus.Event) {
		if mc, ok := ev.(bus.ModeChanged); ok && mc.Mode == "normal" {
			close(done)
		}
	})

	c := NewController(b, 20*time.Millisecond)
	c.EnterEdit()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("edit mode did not time out")
	}
	if c.Current() != Normal {
		t.Errorf("mode = %v after timeout, want Normal", c.Current())
	}
}

func TestTouchPushesBackTimeout(t *testing.T) {
	b := bus.New()
	c := NewController(b, 60*time.Millisecond)
	c.EnterEdit()

	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		c.Touch()
	}
	if c.Current() != Edit {
		t.Fatal("touched edit mode timed out early")
	}

	time.Sleep(120 * time.Millisecond)
	if c.Current() != Normal {
		t.Error("edit mode did not time out after touches stopped")
	}
}

func TestZeroTimeoutNeverExits(t *testing.T) {
	b := bus.New()
	c := NewController(b, 0)
	c.EnterEdit()
	time.Sleep(30 * time.Millisecond)
	if c.Current() != Edit {
		t.Error("edit mode exited with timeout disabled")
	}
}
