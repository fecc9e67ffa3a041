package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/daptalk/internal/reply"
)

func (a *App) handleRepliesKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		return tea.Quit
	case key.Matches(msg, keys.Up):
		if s.selected > 0 {
			s.selected--
		}
		return nil
	case key.Matches(msg, keys.Down):
		if s.selected < len(s.replies)-1 {
			s.selected++
		}
		return nil
	case key.Matches(msg, keys.Mode):
		a.toggleMode()
		a.view = viewCompose
		return s.compose.Focus()
	case key.Matches(msg, keys.Settings):
		a.openSettings()
		return nil
	}

	switch msg.String() {
	case "c", "enter":
		return copyReply(s.selected, s.replies)
	case "1", "2", "3", "4":
		i := int(msg.String()[0] - '1')
		if i < len(s.replies) {
			s.selected = i
			return copyReply(i, s.replies)
		}
	case "r":
		return a.regenerate()
	case "e":
		a.openEditor()
	case "n":
		s.compose.Reset()
		s.images.Clear()
		s.conversation.Replace(nil)
		s.replies = nil
		s.session.Clear()
		s.notice = ""
		a.view = viewCompose
		return s.compose.Focus()
	case "?":
		a.view = viewHelp
	}
	return nil
}

func copyReply(i int, replies []reply.Suggestion) tea.Cmd {
	if i < 0 || i >= len(replies) {
		return nil
	}
	sg := replies[i]
	return func() tea.Msg {
		return clipboardCopyMsg{style: sg.Style, err: clipboard.WriteAll(sg.Text)}
	}
}

func (a *App) renderReplies() string {
	s := a.state
	var b strings.Builder

	width := min(72, max(30, a.width-4))

	// What is being answered
	if latest := s.conversation.LatestOther(); latest != "" {
		asked := styleSubtitle.Render("> " + truncate(latest, width-4))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, asked))
		b.WriteString("\n")
	}
	if snap := s.session.Snapshot(); snap.Intent != "" {
		intent := styleSubtitle.Render("Intent: " + truncate(snap.Intent, width-10))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, intent))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Reply cards
	for i, sg := range s.replies {
		header := fmt.Sprintf("%d. %s", i+1, sg.Style)
		if reply.Fallback(s.mode, sg) {
			header += styleSubtitle.Render("  (fallback)")
		}

		card := styleBox.Copy().Width(width)
		if i == s.selected {
			card = card.BorderForeground(colorPrimary)
			header = styleSelected.Render(header)
		} else {
			header = styleSubtitle.Render(header)
		}

		body := header + "\n" + wrapText(sg.Text, width-4)
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, card.Render(body)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNotice.Render(s.notice)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Status bar
	status := styleStatusBar.Render(wrapText("[j/k] Select  [c/1-4] Copy  [r] Regenerate  [e] Edit conversation  [n] New  [Ctrl+T] Mode  [Esc] Quit", width))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
