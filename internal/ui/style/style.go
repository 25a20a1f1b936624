// Package style provides shared UI styling primitives including brand colors,
// icons and table styles for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// Table styles.
var (
	Header = lipgloss.NewStyle().Bold(true).Foreground(Iris).Padding(0, 1)
	Cell   = lipgloss.NewStyle().Padding(0, 1)
	Muted  = lipgloss.NewStyle().Foreground(Slate).Padding(0, 1)
	Border = lipgloss.NewStyle().Foreground(Slate)
)

// ActionColor returns the color used for a plan action name.
func ActionColor(action string) lipgloss.Color {
	switch action {
	case "Install", "Upgrade", "Obsolete", "Reinstall", "Downgrade":
		return Green
	case "Remove":
		return Red
	default:
		return Slate
	}
}
