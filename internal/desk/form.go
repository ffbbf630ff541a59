package desk

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// openAddForm builds the add-widget form from the catalog.
func (m model) openAddForm() (tea.Model, tea.Cmd) {
	defs := m.desk.definitions()
	if len(defs) == 0 {
		m.status = "catalog is empty"
		return m, nil
	}

	opts := make([]huh.Option[string], 0, len(defs))
	for _, d := range defs {
		label := fmt.Sprintf("%s (%dx%d)", d.Title, d.Cols, d.Rows)
		opts = append(opts, huh.NewOption(label, d.ID))
	}

	g := m.desk.surface().Grid()
	total := g.TotalCells()
	m.formDef = defs[0].ID
	m.formCell = "1"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("definition").
				Title("Widget").
				Options(opts...).
				Value(&m.formDef),

			huh.NewInput().
				Key("cell").
				Title("Target Cell").
				Description(fmt.Sprintf("1-%d, shifted left/up when the widget would overflow", total)).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil {
						return fmt.Errorf("enter a cell number")
					}
					if !g.InRange(n) {
						return fmt.Errorf("cell must be 1-%d", total)
					}
					return nil
				}).
				Value(&m.formCell),
		),
	)
	return m, m.form.Init()
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		cell, _ := strconv.Atoi(m.formCell)
		w, err := m.desk.surface().AddWidget(m.formDef, cell, nil)
		if err != nil {
			m.status = "placement failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("placed at cell %d", w.Footprint.AnchorCell)
		}
		m.form = nil
		return m, nil
	}

	return m, cmd
}
