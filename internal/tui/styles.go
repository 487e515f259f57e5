package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/molview/internal/molecule"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// labelStyle colours a run of label text with its atom colour.
func labelStyle(text string, c molecule.Color) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true).Render(text)
}
