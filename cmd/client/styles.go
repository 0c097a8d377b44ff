package main

import "github.com/charmbracelet/lipgloss"

// Shared palette
var (
	red       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellow    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cyan      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray      = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	lightGray = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))

	errorHeaderStyle = red.Bold(true)
	titleStyle       = cyan.Bold(true)
	helpStyle        = gray
	badgeNewStyle    = green.Bold(true)
	badgeUpdateStyle = cyan.Bold(true)
	warnStyle        = yellow
)
