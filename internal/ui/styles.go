package ui

import "github.com/charmbracelet/lipgloss"

// Color palette (ANSI 256).
const (
	ColorAccent    = "86"  // cyan: borders, headers
	ColorHighlight = "205" // pink: selection, keys
	ColorDanger    = "196"
	ColorMuted     = "241"
	ColorText      = "252"
	ColorDim       = "243"
	ColorWarning   = "208"
	ColorSuccess   = "42"
)

// Styles holds the dashboard's lipgloss styles.
var Styles = struct {
	Title       lipgloss.Style
	Header      lipgloss.Style
	Project     lipgloss.Style
	Status      lipgloss.Style
	Label       lipgloss.Style
	Selected    lipgloss.Style
	Muted       lipgloss.Style
	Text        lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Success     lipgloss.Style
	Divider     lipgloss.Style
	DividerDrag lipgloss.Style
	Key         lipgloss.Style
}{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
	Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorText)),
	Project:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
	Status:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim)),
	Label:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)).Underline(true),
	Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHighlight)),
	Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
	Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText)),
	Error:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger)),
	Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)),
	Success:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)),
	Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
	DividerDrag: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)),
	Key:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHighlight)),
}

// Overlay box styles, by severity.
var (
	BoxNormal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccent)).
			Padding(1, 2)
	BoxWarning = BoxNormal.BorderForeground(lipgloss.Color(ColorDanger))
)
