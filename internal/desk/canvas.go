package desk

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/benchtop-sh/benchtop/internal/grid"
)

// canvas is a fixed-size character buffer the bench surface is composed
// onto. Boxes overdraw earlier content, so draw order is back to front:
// empty cells, ghost, widgets.
type canvas struct {
	w, h   int
	runes  [][]rune
	styles [][]*lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h}
	c.runes = make([][]rune, h)
	c.styles = make([][]*lipgloss.Style, h)
	for y := 0; y < h; y++ {
		c.runes[y] = make([]rune, w)
		c.styles[y] = make([]*lipgloss.Style, w)
		for x := 0; x < w; x++ {
			c.runes[y][x] = ' '
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, st *lipgloss.Style) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.runes[y][x] = r
	c.styles[y][x] = st
}

// text writes s starting at (x, y), clipped to the canvas.
func (c *canvas) text(x, y int, s string, st *lipgloss.Style) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, st)
	}
}

// box draws a rounded border around r. Rects narrower than two
// characters in either direction are skipped.
func (c *canvas) box(r grid.Rect, st *lipgloss.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right := r.X + r.Width - 1
	bottom := r.Y + r.Height - 1

	c.set(r.X, r.Y, '╭', st)
	c.set(right, r.Y, '╮', st)
	c.set(r.X, bottom, '╰', st)
	c.set(right, bottom, '╯', st)
	for x := r.X + 1; x < right; x++ {
		c.set(x, r.Y, '─', st)
		c.set(x, bottom, '─', st)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.set(r.X, y, '│', st)
		c.set(right, y, '│', st)
	}
}

// fill paints the interior of r with ch.
func (c *canvas) fill(r grid.Rect, ch rune, st *lipgloss.Style) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			c.set(x, y, ch, st)
		}
	}
}

// render flattens the buffer to a string, grouping runs of equal style
// to keep escape sequences bounded.
func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle != nil {
				b.WriteString(runStyle.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			if c.styles[y][x] != runStyle {
				flush()
				runStyle = c.styles[y][x]
			}
			run.WriteRune(c.runes[y][x])
		}
		flush()
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
