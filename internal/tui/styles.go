package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorAccent    = lipgloss.Color("#3FA9F5")
	colorGreen     = lipgloss.Color("#3DDC84")
	colorRed       = lipgloss.Color("#FF5F56")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	menuItemStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			PaddingLeft(2)

	menuItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true).
				PaddingLeft(2)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	commandDescStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				PaddingLeft(1)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorDarkGray).
			Bold(true).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

const logo = `
   ___                   _  __           _           _
  / _ \ _ __   ___ _ __ | |/ /___  _ __ | |__   __ _(_)
 | | | | '_ \ / _ \ '_ \| ' // _ \| '_ ` + "`" + ` _ \| '_ \ / _` + "`" + ` | |
 | |_| | |_) |  __/ | | | . \ (_) | | | | | | |_) | (_| | |
  \___/| .__/ \___|_| |_|_|\_\___/|_| |_| |_|_.__/ \__,_|_|
       |_|
`
