package desk

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/grid"
	"github.com/benchtop-sh/benchtop/internal/mode"
)

const wiggleInterval = 150 * time.Millisecond

// Keys active outside the add-widget form.
type deskKeys struct {
	Quit key.Binding
	Edit key.Binding
	Add  key.Binding
	Esc  key.Binding
}

var keys = deskKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit mode"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add widget"),
	),
	Esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// model is the root bubbletea model for the desk shell.
type model struct {
	desk *Desk

	width  int
	height int

	// Add-widget form state.
	form     *huh.Form
	formDef  string
	formCell string

	status      string
	ghostValid  bool
	wiggleOn    bool
	wigglePhase bool

	// Widget whose delete mark took the press; confirmed on release.
	pendingDelete string
}

func newModel(d *Desk) model {
	return model{desk: d, ghostValid: true}
}

func (m model) Init() tea.Cmd {
	return tea.EnableMouseAllMotion
}

func wiggleTick() tea.Cmd {
	return tea.Tick(wiggleInterval, func(time.Time) tea.Msg {
		return wiggleTickMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.form != nil {
			return m, nil
		}
		return m.handleMouse(msg)

	case busEventMsg:
		return m.handleBusEvent(msg.event)

	case wiggleTickMsg:
		if !m.wiggleOn {
			return m, nil
		}
		m.wigglePhase = !m.wigglePhase
		return m, wiggleTick()

	case configReloadedMsg:
		if err := m.desk.reloadConfig(msg.cfg); err != nil {
			m.status = "config reload failed: " + err.Error()
		} else {
			m.status = "configuration reloaded"
		}
		return m, nil

	case switchWorkspaceMsg:
		if err := m.desk.loadWorkspace(msg.name); err != nil {
			m.status = "workspace switch failed: " + err.Error()
		} else {
			m.status = "workspace: " + msg.name
		}
		return m, nil

	case launchFinishedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("launching %s failed: %v", msg.app, msg.err)
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	surf := m.desk.surface()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Edit):
		if surf.Mode() == mode.Edit {
			surf.ExitEditMode()
		} else {
			surf.EnterEditMode()
		}
	case key.Matches(msg, keys.Esc):
		if surf.Dragging() != "" {
			surf.PointerCancel()
		} else {
			surf.ExitEditMode()
		}
	case key.Matches(msg, keys.Add):
		return m.openAddForm()
	}
	return m, nil
}

func (m model) handleBusEvent(e bus.Event) (tea.Model, tea.Cmd) {
	switch e := e.(type) {
	case bus.WidgetPlaced, bus.WidgetMoved, bus.WidgetRemoved:
		if err := m.desk.saveWorkspace(); err != nil {
			m.status = "saving workspace failed: " + err.Error()
		}
	case bus.ModeChanged:
		if e.Mode == mode.Edit.String() {
			m.wiggleOn = true
			m.status = "edit mode: drag widgets, press ✕ to remove"
			return m, wiggleTick()
		}
		m.wiggleOn = false
		m.wigglePhase = false
		m.status = ""
	case bus.DragPreview:
		m.ghostValid = e.Valid
	case bus.DragEnded:
		m.ghostValid = true
		if e.Committed {
			m.status = fmt.Sprintf("moved to cell %d", e.Anchor)
		} else {
			m.status = "drop blocked, widget returned"
		}
	case bus.LongPressed:
		if e.Launch {
			return m, m.launch(e.WidgetID)
		}
	case bus.Clicked:
		if title, ok := m.widgetTitle(e.WidgetID); ok {
			m.status = title
		}
	case bus.DoubleClicked:
		if title, ok := m.widgetTitle(e.WidgetID); ok {
			m.status = title + ": opened"
		}
	}
	return m, nil
}

func (m model) widgetTitle(widgetID string) (string, bool) {
	w, ok := m.desk.surface().Widget(widgetID)
	if !ok {
		return "", false
	}
	def, ok := m.desk.definition(w.DefinitionID)
	if !ok {
		return "", false
	}
	return def.Title, true
}

// launch runs a launcher widget's application outside the UI loop.
func (m model) launch(widgetID string) tea.Cmd {
	w, ok := m.desk.surface().Widget(widgetID)
	if !ok {
		return nil
	}
	def, ok := m.desk.definition(w.DefinitionID)
	if !ok || def.App == "" {
		return nil
	}
	app := def.App
	return func() tea.Msg {
		return launchFinishedMsg{app: app, err: exec.Command(app).Start()}
	}
}

// ── Mouse handling ───────────────────────────────────────────────

// gridOrigin returns the top-left screen position of the bench grid,
// centered between the header row and the status bar.
func (m model) gridOrigin() (int, int) {
	g := m.desk.surface().Grid()
	gw, gh := g.PixelSize()
	ox := (m.width - gw) / 2
	if ox < 0 {
		ox = 0
	}
	oy := 1 + (m.height-2-gh)/2
	if oy < 1 {
		oy = 1
	}
	return ox, oy
}

// hitTest resolves a surface-local point to the widget under it, and
// whether the point lands on the widget's delete mark. The mark only
// exists in edit mode.
func (m model) hitTest(p grid.Point) (widgetID string, onDeleteMark bool) {
	surf := m.desk.surface()
	g := surf.Grid()
	for _, w := range surf.Widgets() {
		r := g.FootprintRect(w.Footprint.AnchorCell, w.Footprint.Cols, w.Footprint.Rows)
		if !r.Contains(p) {
			continue
		}
		if surf.Mode() == mode.Edit && deleteMarkRect(r).Contains(p) {
			return w.ID, true
		}
		return w.ID, false
	}
	return "", false
}

// deleteMarkRect is the hit region for the ✕ on a widget's top border.
func deleteMarkRect(r grid.Rect) grid.Rect {
	return grid.Rect{X: r.X + r.Width - 3, Y: r.Y, Width: 2, Height: 1}
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ox, oy := m.gridOrigin()
	p := grid.Point{X: msg.X - ox, Y: msg.Y - oy}
	surf := m.desk.surface()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		widgetID, onMark := m.hitTest(p)
		if onMark {
			m.pendingDelete = widgetID
		} else {
			m.pendingDelete = ""
		}
		surf.PointerDown(widgetID, p, onMark)

	case tea.MouseActionMotion:
		surf.PointerMove(p)

	case tea.MouseActionRelease:
		surf.PointerUp(p)
		if m.pendingDelete != "" {
			if id, onMark := m.hitTest(p); onMark && id == m.pendingDelete {
				surf.RemoveWidget(id)
				m.status = "widget removed"
			}
			m.pendingDelete = ""
		}
	}
	return m, nil
}
