package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aezell/crev/internal/model"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(colorPurple)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(4).
			Align(lipgloss.Right)

	codeStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	// Score cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(16).
			Align(lipgloss.Center)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Suggestions
	suggestionTitleStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	fixStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// History panel
	historyItemStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	historySelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

func bandStyle(score int) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch model.BandFor(score) {
	case model.BandGood:
		return s.Foreground(colorGreen)
	case model.BandModerate:
		return s.Foreground(colorYellow)
	default:
		return s.Foreground(colorRed)
	}
}

func severityStyle(sev model.Severity) lipgloss.Style {
	switch sev {
	case model.SeverityCritical:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	case model.SeverityHigh:
		return lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	case model.SeverityMedium:
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return lipgloss.NewStyle().Foreground(colorBlue)
	}
}

func statusStyle(st model.Status) lipgloss.Style {
	switch st {
	case model.StatusCompleted:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case model.StatusFailed:
		return lipgloss.NewStyle().Foreground(colorRed)
	case model.StatusAnalyzing:
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return lipgloss.NewStyle().Foreground(colorDim)
	}
}
