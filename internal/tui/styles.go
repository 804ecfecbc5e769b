package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#3478C8")
	muted   = lipgloss.Color("#7A7F8A")
	warn    = lipgloss.Color("#E0A030")
	danger  = lipgloss.Color("#D9534F")
	success = lipgloss.Color("#3FB37F")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(20)
	boldStyle  = lipgloss.NewStyle().Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1)
	tabStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(danger)
	infoStyle     = lipgloss.NewStyle().Foreground(success)
	busyStyle     = lipgloss.NewStyle().Foreground(warn)

	bodyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)
