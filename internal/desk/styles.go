package desk

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorText   = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorAccent = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorEdit   = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOK     = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorBad    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
)

// Chrome styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	editBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorEdit)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Bench surface styles. The canvas groups adjacent characters sharing a
// style, so these are shared pointers rather than per-draw values.
var (
	emptyCellStyle   = lipgloss.NewStyle().Foreground(colorDim)
	widgetStyle      = lipgloss.NewStyle().Foreground(colorText)
	widgetTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	launcherStyle    = lipgloss.NewStyle().Foreground(colorOK)
	editWidgetStyle  = lipgloss.NewStyle().Foreground(colorEdit)
	deleteMarkStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBad)
	ghostValidStyle  = lipgloss.NewStyle().Foreground(colorOK)
	ghostBlockStyle  = lipgloss.NewStyle().Foreground(colorBad)
)
