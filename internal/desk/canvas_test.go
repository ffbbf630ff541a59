package desk

import (
	"strings"
	"testing"

	"github.com/benchtop-sh/benchtop/internal/grid"
)

func TestCanvasBoxCorners(t *testing.T) {
	c := newCanvas(10, 5)
	c.box(grid.Rect{X: 1, Y: 1, Width: 6, Height: 3}, nil)

	lines := strings.Split(c.render(), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	if !strings.HasPrefix(lines[1], " ╭────╮") {
		t.Errorf("top border = %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], " ╰────╯") {
		t.Errorf("bottom border = %q", lines[3])
	}
}

func TestCanvasClipsOutOfBounds(t *testing.T) {
	c := newCanvas(4, 2)
	c.text(-2, 0, "abcdef", nil)
	c.set(10, 10, 'x', nil)

	lines := strings.Split(c.render(), "\n")
	if lines[0] != "cdef" {
		t.Errorf("clipped text = %q, want cdef", lines[0])
	}
}

func TestCanvasSkipsDegenerateBox(t *testing.T) {
	c := newCanvas(4, 4)
	c.box(grid.Rect{X: 0, Y: 0, Width: 1, Height: 4}, nil)
	if got := c.render(); strings.ContainsRune(got, '╭') {
		t.Errorf("degenerate box was drawn: %q", got)
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"Chemical Inventory", 18, "Chemical Inventory"},
		{"Chemical Inventory", 10, "Chemical …"},
		{"ab", 1, "…"},
		{"ab", 0, ""},
	}
	for _, tt := range tests {
		if got := clip(tt.s, tt.max); got != tt.want {
			t.Errorf("clip(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}
