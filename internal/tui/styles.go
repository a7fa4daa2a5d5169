package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary   = lipgloss.Color("#10B981")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")

	// Nutrient colors: emerald, blue, amber, purple.
	colorCalories = lipgloss.Color("#10B981")
	colorProtein  = lipgloss.Color("#3B82F6")
	colorCarbs    = lipgloss.Color("#F59E0B")
	colorFat      = lipgloss.Color("#8B5CF6")
)

// nutrientColors maps a nutrient label to its bar color.
var nutrientColors = map[string]lipgloss.Color{
	"Calories": colorCalories,
	"Protein":  colorProtein,
	"Carbs":    colorCarbs,
	"Fat":      colorFat,
}

// gradeColors maps Nutri-Score grades to their usual colors.
var gradeColors = map[string]lipgloss.Color{
	"a": lipgloss.Color("#038141"),
	"b": lipgloss.Color("#85BB2F"),
	"c": lipgloss.Color("#FECB02"),
	"d": lipgloss.Color("#EE8100"),
	"e": lipgloss.Color("#E63E11"),
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Toast
	toastStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)
)
