package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	usageLines := []string{
		"  Paste a chat (\"Other: ...\" / \"Me: ...\" lines),",
		"  or attach up to two screenshots, then generate.",
		"  You get four replies to the other person's last",
		"  message, each in a different style.",
		"",
		"  Relationship mode needs both genders in settings.",
	}

	usageBox := styleBox.Copy().
		Width(56).
		Render(strings.Join(usageLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, usageBox))
	b.WriteString("\n\n")

	// Keyboard shortcuts
	var shortcuts []string
	for _, k := range []key.Binding{
		keys.Generate, keys.Paste, keys.Attach, keys.Detach,
		keys.Mode, keys.Editor, keys.Samples, keys.Settings,
		keys.MoveUp, keys.MoveDown, keys.Quit,
	} {
		h := k.Help()
		shortcuts = append(shortcuts, fmt.Sprintf("  %-14s %s", h.Key, h.Desc))
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.Copy().
		Width(56).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
