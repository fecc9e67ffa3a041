package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) handleQuotaKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "u":
		a.togglePremium()
		a.state.notice = "Premium enabled. Generate again to continue."
		a.view = a.state.returnTo
	case "esc", "enter", "q":
		a.view = a.state.returnTo
	}
	if a.view == viewCompose {
		return a.state.compose.Focus()
	}
	return nil
}

func (a *App) renderQuota() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorWarning).
		Bold(true).
		Render("Daily limit reached")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	lines := []string{
		fmt.Sprintf("The free plan includes %d generations per day.", a.state.counter.Limit()),
		"Your count resets tomorrow.",
		"",
		styleSelected.Render("Premium") + " removes the daily limit.",
	}
	box := styleBox.Copy().
		Width(min(56, a.width-4)).
		BorderForeground(colorWarning).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	status := styleStatusBar.Render("[u] Upgrade  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
