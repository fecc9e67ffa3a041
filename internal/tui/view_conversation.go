package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/daptalk/internal/conversation"
	"github.com/sant0-9/daptalk/internal/pipeline"
)

func (a *App) openEditor() {
	s := a.state
	if s.conversation.Len() == 0 {
		s.conversation = conversation.Samples()
	}
	s.cursor = min(s.cursor, s.conversation.Len()-1)
	s.editing = editNone
	s.compose.Blur()
	a.view = viewConversation
}

func (a *App) handleConversationKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state
	c := s.conversation

	if s.editing != editNone {
		switch {
		case key.Matches(msg, keys.Quit):
			s.editing = editNone
			s.editInput.Reset()
			s.editInput.Blur()
			return nil, true
		case key.Matches(msg, keys.Enter):
			text := strings.TrimSpace(s.editInput.Value())
			if text != "" {
				if s.editing == -1 {
					// New lines default to the opposite of the one above
					sender := conversation.Other
					if c.Len() > 0 {
						sender = c.Messages()[c.Len()-1].Sender.Flip()
					}
					s.cursor = c.Add(sender, text)
				} else {
					c.Update(s.editing, text)
				}
			}
			s.editing = editNone
			s.editInput.Reset()
			s.editInput.Blur()
			return nil, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		a.view = viewCompose
		return a.state.compose.Focus(), true
	case key.Matches(msg, keys.MoveUp):
		if c.Move(s.cursor, conversation.Up) {
			s.cursor--
		}
	case key.Matches(msg, keys.MoveDown):
		if c.Move(s.cursor, conversation.Down) {
			s.cursor++
		}
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if s.cursor < c.Len()-1 {
			s.cursor++
		}
	}

	switch msg.String() {
	case "t", " ":
		c.ToggleSender(s.cursor)
	case "d", "delete":
		if c.Delete(s.cursor) && s.cursor >= c.Len() {
			s.cursor = max(0, c.Len()-1)
		}
	case "e":
		if s.cursor < c.Len() {
			s.editing = s.cursor
			s.editInput.SetValue(c.Messages()[s.cursor].Text)
			s.editInput.CursorEnd()
			return s.editInput.Focus(), true
		}
	case "a":
		s.editing = -1
		s.editInput.Reset()
		return s.editInput.Focus(), true
	case "r", "enter", "ctrl+g":
		return a.regenerate(), true
	}

	return nil, true
}

// regenerate runs the text flow on the edited conversation
func (a *App) regenerate() tea.Cmd {
	req := a.request()
	req.Messages = a.state.conversation.Messages()
	return a.generate(payloadConversation, (*pipeline.Pipeline).FromConversation, req)
}

func (a *App) renderConversation() string {
	s := a.state
	var b strings.Builder

	title := styleTitle.Render("Conversation")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n")
	subtitle := styleSubtitle.Render(fmt.Sprintf("%d messages, %s mode", s.conversation.Len(), s.mode))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, subtitle))
	b.WriteString("\n\n")

	width := min(76, max(30, a.width-4))
	textWidth := width - 14

	var lines []string
	for i, m := range s.conversation.Messages() {
		cursor := "  "
		if i == s.cursor {
			cursor = "> "
		}

		label := fmt.Sprintf("%-6s", m.Sender.Label())
		text := truncate(m.Text, textWidth)
		if i == s.editing {
			text = s.editInput.View()
		}

		var line string
		switch {
		case i == s.cursor:
			line = styleSelected.Render(cursor+label) + " " + text
		case m.Sender == conversation.Self:
			line = styleSelf.Render(cursor+label+" "+text)
		default:
			line = styleOther.Render(cursor+label+" "+text)
		}
		lines = append(lines, line)
	}
	if s.editing == -1 {
		lines = append(lines, styleSelected.Render("+ new  ")+s.editInput.View())
	}
	if len(lines) == 0 {
		lines = append(lines, styleSubtitle.Render("No messages. Press [a] to add one."))
	}

	box := styleBox.Copy().
		Width(width).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n")

	if latest := s.conversation.LatestOther(); latest != "" {
		info := styleSubtitle.Render("Replying to: " + truncate(latest, width-14))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, info))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNotice.Render(s.notice)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var help string
	if s.editing != editNone {
		help = "[Enter] Save  [Esc] Cancel"
	} else {
		help = "[j/k] Select  [t] Toggle sender  [J/K] Move  [e] Edit  [a] Add  [d] Delete  [r] Generate  [Esc] Back"
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleStatusBar.Render(wrapText(help, width))))

	return a.centerVertically(b.String())
}
