// Package styles holds the lipgloss styles shared across the workspace
// surfaces.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	App = lipgloss.NewStyle().
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF"))

	Crumb = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9"))

	CrumbCurrent = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73F59F"))

	Selected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#73F59F")).
			Bold(true)

	Dir = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#61AFEF")).
		Bold(true)

	Hidden = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666"))

	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9"))

	Status = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#999999"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E06C75")).
		Bold(true)

	Notice = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E5C07B"))

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1)

	CardSelected = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#73F59F")).
			Padding(0, 1)

	CommandPane = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#444444"))
)
