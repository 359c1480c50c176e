package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles collects the lipgloss styles of the grid surface.
type Styles struct {
	Header        lipgloss.Style
	HeaderDemoted lipgloss.Style
	Cell          lipgloss.Style
	SelectedRow   lipgloss.Style
	FocusedCell   lipgloss.Style
	MarkedRow     lipgloss.Style
	Collapsed     lipgloss.Style
	Status        lipgloss.Style
	SearchPrompt  lipgloss.Style
	ErrorText     lipgloss.Style
}

// DefaultStyles builds the styles for the active color profile.
func DefaultStyles() Styles {
	profile := termenv.ColorProfile()
	dim := lipgloss.AdaptiveColor{Light: "244", Dark: "240"}
	accent := lipgloss.AdaptiveColor{Light: "25", Dark: "39"}

	s := Styles{
		Header:        lipgloss.NewStyle().Bold(true),
		HeaderDemoted: lipgloss.NewStyle().Faint(true),
		Cell:          lipgloss.NewStyle(),
		SelectedRow:   lipgloss.NewStyle().Reverse(true),
		FocusedCell:   lipgloss.NewStyle().Bold(true).Underline(true),
		MarkedRow:     lipgloss.NewStyle().Foreground(accent),
		Collapsed:     lipgloss.NewStyle().Foreground(dim),
		Status:        lipgloss.NewStyle().Faint(true),
		SearchPrompt:  lipgloss.NewStyle().Foreground(accent),
		ErrorText:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"}),
	}
	if profile == termenv.Ascii {
		s.MarkedRow = lipgloss.NewStyle().Bold(true)
	}
	return s
}
