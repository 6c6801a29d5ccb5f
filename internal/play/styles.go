package play

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleSection   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // Yellow
	styleCursor    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleHighlight = lipgloss.NewStyle().Background(lipgloss.Color("22")).Foreground(lipgloss.Color("0"))
	styleCorrect   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true) // Green
	styleIncorrect = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // Red
	styleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	styleSubtle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	styleTile      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func cursorMark(active bool) string {
	if active {
		return styleCursor.Render(">")
	}
	return " "
}
