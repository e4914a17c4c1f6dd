package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorEven   = lipgloss.Color("33") // blue
	colorOdd    = lipgloss.Color("42") // green
	colorBorder = lipgloss.Color("8")
	colorAccent = lipgloss.Color("214")

	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	toastStyle    = lipgloss.NewStyle().Foreground(colorAccent)

	evenStyle = lipgloss.NewStyle().Foreground(colorEven)
	oddStyle  = lipgloss.NewStyle().Foreground(colorOdd)
)

// fadeRamp is walked from dark to light while a new image row appears.
var fadeRamp = []lipgloss.Color{"236", "239", "242", "245", "249", "252"}

// rowStyle tints to-do rows by position only.
func rowStyle(index int) lipgloss.Style {
	if index%2 == 0 {
		return evenStyle
	}
	return oddStyle
}

func fadeStyle(step int) lipgloss.Style {
	if step < 0 {
		step = 0
	}
	if step >= len(fadeRamp) {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(fadeRamp[step])
}

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	return border.Render(inner)
}

func modalBox(width int, title, body string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)
	if width > 8 {
		box = box.Width(min(width-4, 72))
	}
	return box.Render(titleStyle.Render(title) + "\n\n" + strings.TrimRight(body, "\n"))
}
