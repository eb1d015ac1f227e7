package tui

import "github.com/charmbracelet/lipgloss"

type styleMap struct {
	titleStyle   lipgloss.Style
	labelStyle   lipgloss.Style
	focusStyle   lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	helpStyle    lipgloss.Style
}

func newStyleMap() styleMap {
	return styleMap{
		titleStyle:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		labelStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		focusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#1a7f37")),
		errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#cf222e")),
		helpStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
