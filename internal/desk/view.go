package desk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/mode"
)

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.form != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.form.View())
	}

	surf := m.desk.surface()
	g := surf.Grid()
	gw, gh := g.PixelSize()
	if m.width < gw || m.height < gh+2 {
		msg := fmt.Sprintf("terminal too small: need %dx%d, have %dx%d",
			gw, gh+2, m.width, m.height)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			hintStyle.Render(msg))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	bench := m.renderBench(surf.Mode() == mode.Edit)
	ox, oy := m.gridOrigin()
	for i := 1; i < oy; i++ {
		b.WriteByte('\n')
	}
	pad := strings.Repeat(" ", ox)
	for _, line := range strings.Split(bench, "\n") {
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for i := oy + gh; i < m.height-1; i++ {
		b.WriteByte('\n')
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m model) renderHeader() string {
	title := headerStyle.Render("benchtop")
	ws := hintStyle.Render(" · " + m.desk.activeWorkspace())
	h := title + ws
	if m.desk.surface().Mode() == mode.Edit {
		h += "  " + editBadgeStyle.Render("[EDIT]")
	}
	return h
}

func (m model) renderStatusBar() string {
	hints := "a add · e edit · esc cancel · q quit"
	left := " " + m.status
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hints) - 1
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + hintStyle.Render(hints) + " "
	return statusBarStyle.Width(m.width).Render(line)
}

// renderBench composes the grid onto a character canvas: empty cells
// first, then the drag ghost, then placed widgets on top.
func (m model) renderBench(editing bool) string {
	surf := m.desk.surface()
	g := surf.Grid()
	gw, gh := g.PixelSize()
	c := newCanvas(gw, gh)

	for cell := 1; cell <= g.TotalCells(); cell++ {
		c.box(g.CellRect(cell), &emptyCellStyle)
	}

	ghostID, ghostRect, ghostVisible := m.desk.ghost.snapshot()
	if ghostVisible {
		st := &ghostValidStyle
		if !m.ghostValid {
			st = &ghostBlockStyle
		}
		c.fill(inset(ghostRect), '░', st)
		c.box(ghostRect, st)
		if title, ok := m.widgetTitle(ghostID); ok {
			c.text(ghostRect.X+2, ghostRect.Y, clip(title, ghostRect.Width-4), st)
		}
	}

	for i, w := range surf.Widgets() {
		if w.ID == ghostID && ghostVisible {
			continue
		}
		r := g.FootprintRect(w.Footprint.AnchorCell, w.Footprint.Cols, w.Footprint.Rows)
		if editing {
			// Wiggle: nudge alternate widgets a column back and forth.
			if m.wigglePhase == (i%2 == 0) {
				r.X++
			} else if r.X > 0 {
				r.X--
			}
		}
		m.renderWidget(c, w.ID, w.DefinitionID, r, editing)
	}

	return c.render()
}

func (m model) renderWidget(c *canvas, id, definitionID string, r grid.Rect, editing bool) {
	def, known := m.desk.definition(definitionID)

	border := &widgetStyle
	if editing {
		border = &editWidgetStyle
	} else if known && def.LaunchOnHold {
		border = &launcherStyle
	}

	c.fill(inset(r), ' ', nil)
	c.box(r, border)

	title := definitionID
	if known {
		title = def.Title
	}
	c.text(r.X+2, r.Y, clip(title, r.Width-6), &widgetTitleStyle)

	if known && def.LaunchOnHold {
		c.text(r.X+2, r.Y+r.Height-1, clip("hold to launch", r.Width-6), &hintStyle)
	}
	if editing {
		mark := deleteMarkRect(r)
		c.text(mark.X, mark.Y, " ✕", &deleteMarkStyle)
	}
}

func inset(r grid.Rect) grid.Rect {
	return grid.Rect{X: r.X + 1, Y: r.Y + 1, Width: r.Width - 2, Height: r.Height - 2}
}

func clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(rs[:max-1]) + "…"
}
