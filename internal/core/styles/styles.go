// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Title renders section headers in report output.
	Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	// Muted renders secondary labels.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	// Success renders completed counts.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	// Warning renders pending counts.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	// Card frames a summary block.
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3b4261")).
		Padding(0, 1)
)
