package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/daptalk/internal/conversation"
	"github.com/sant0-9/daptalk/internal/pipeline"
	"github.com/sant0-9/daptalk/internal/style"
	"github.com/sant0-9/daptalk/internal/usage"
)

const logo = `
 ██████╗  █████╗ ██████╗ ████████╗ █████╗ ██╗     ██╗  ██╗
 ██╔══██╗██╔══██╗██╔══██╗╚══██╔══╝██╔══██╗██║     ██║ ██╔╝
 ██║  ██║███████║██████╔╝   ██║   ███████║██║     █████╔╝
 ██║  ██║██╔══██║██╔═══╝    ██║   ██╔══██║██║     ██╔═██╗
 ██████╔╝██║  ██║██║        ██║   ██║  ██║███████╗██║  ██╗
 ╚═════╝ ╚═╝  ╚═╝╚═╝        ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`

func (a *App) handleComposeKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state

	if s.attaching {
		switch {
		case key.Matches(msg, keys.Quit):
			s.attaching = false
			s.pathInput.Reset()
			s.pathInput.Blur()
			return s.compose.Focus(), true
		case key.Matches(msg, keys.Enter):
			path := strings.TrimSpace(s.pathInput.Value())
			s.attaching = false
			s.pathInput.Reset()
			s.pathInput.Blur()
			if path != "" {
				if img, err := s.images.AddPath(path); err != nil {
					s.notice = err.Error()
				} else {
					s.notice = fmt.Sprintf("Attached %s (%s)", img.Metadata.Name, img.Metadata.FileSizeHuman())
				}
			}
			return s.compose.Focus(), true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		return tea.Quit, true

	case key.Matches(msg, keys.Generate):
		return a.generateFromCompose(), true

	case key.Matches(msg, keys.Paste):
		return pasteClipboard, true

	case key.Matches(msg, keys.Attach):
		if s.images.Full() {
			s.notice = "You can attach at most two screenshots."
			return nil, true
		}
		s.attaching = true
		s.compose.Blur()
		return s.pathInput.Focus(), true

	case key.Matches(msg, keys.Detach):
		if s.images.Remove(s.images.Len() - 1) {
			s.notice = "Removed the last screenshot."
		}
		return nil, true

	case key.Matches(msg, keys.Mode):
		a.toggleMode()
		return nil, true

	case key.Matches(msg, keys.Editor):
		a.openEditor()
		return nil, true

	case key.Matches(msg, keys.Samples):
		s.conversation = conversation.Samples()
		a.openEditor()
		return nil, true

	case key.Matches(msg, keys.Settings):
		a.openSettings()
		return nil, true

	case key.Matches(msg, keys.Help) && msg.String() != "?":
		a.view = viewHelp
		return nil, true
	}

	return nil, false
}

func pasteClipboard() tea.Msg {
	text, err := clipboard.ReadAll()
	if err == nil && strings.TrimSpace(text) == "" {
		return clipboardPasteMsg{err: errors.New("clipboard is empty")}
	}
	return clipboardPasteMsg{text: text, err: err}
}

// toggleMode switches general/relationship. Replies and the remembered
// intent belong to the old mode and are dropped.
func (a *App) toggleMode() {
	s := a.state
	s.mode = s.mode.Toggle()
	s.replies = nil
	s.selected = 0
	s.session.ResetForMode()
	s.notice = "Switched to " + s.mode.String() + " mode."
	if s.mode == style.Relationship && !s.profile.Complete() {
		s.notice += " Set both genders in settings first."
	}
}

// generateFromCompose sends screenshots when any are attached, otherwise
// the pasted text
func (a *App) generateFromCompose() tea.Cmd {
	s := a.state
	req := a.request()

	if s.images.Len() > 0 {
		req.Images = s.images.Images()
		return a.generate(payloadImages, (*pipeline.Pipeline).FromScreenshots, req)
	}

	req.Text = s.compose.Value()
	return a.generate(payloadText, (*pipeline.Pipeline).FromText, req)
}

func (a *App) usageLine() string {
	c := a.state.counter
	if c == nil {
		return ""
	}
	switch c.Status() {
	case usage.Premium:
		return "Premium"
	case usage.FreeAtQuota:
		return "No free generations left today"
	default:
		return fmt.Sprintf("%d/%d free today", c.Remaining(), c.Limit())
	}
}

func (a *App) renderCompose() string {
	s := a.state
	var b strings.Builder

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleLogo.Render(logo)))
	b.WriteString("\n")

	subtitle := styleSubtitle.Render("Four ways to answer the last message")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, subtitle))
	b.WriteString("\n\n")

	// Mode and usage
	modeText := styleSelected.Render(s.mode.String()+" mode") +
		styleSubtitle.Render("  |  "+a.usageLine())
	if s.mode == style.Relationship {
		modeText += styleSubtitle.Render("  |  " + profileLine(s.profile))
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, modeText))
	b.WriteString("\n\n")

	width := min(70, max(24, a.width-4))

	// Screenshots replace the text box as the source
	if s.images.Len() > 0 {
		var lines []string
		for i, img := range s.images.Files() {
			lines = append(lines, fmt.Sprintf("%d. %s  %s", i+1,
				truncate(img.Metadata.Name, width-20), styleSubtitle.Render(img.Metadata.FileSizeHuman())))
		}
		box := styleBox.Copy().
			Width(width).
			BorderForeground(colorSecondary).
			Render(strings.Join(lines, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	} else {
		box := styleBox.Copy().
			Width(width).
			Render(s.compose.View())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	}
	b.WriteString("\n")

	if s.attaching {
		input := styleBox.Copy().
			Width(width).
			BorderForeground(colorSecondary).
			Render(s.pathInput.View())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, input))
		b.WriteString("\n")
	}

	// Provider status
	switch {
	case s.providerError != nil:
		status := lipgloss.NewStyle().Foreground(colorError).
			Render("Provider unreachable: " + truncate(s.providerError.Error(), 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))
		b.WriteString("\n")
	case !s.providerReady:
		status := styleSubtitle.Render("Connecting to " + s.config.Provider + "...")
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNotice.Render(s.notice)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var help string
	if s.attaching {
		help = "[Enter] Attach  [Esc] Cancel"
	} else {
		help = "[Ctrl+G] Generate  [Ctrl+O] Attach  [Ctrl+X] Detach  [Ctrl+T] Mode  [Ctrl+E] Editor  [Ctrl+S] Settings  [Ctrl+H] Help  [Esc] Quit"
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleStatusBar.Render(wrapText(help, width))))

	return a.centerVertically(b.String())
}

func profileLine(p style.Profile) string {
	line := style.GenderLabel(p.Gender) + ", " + style.AgeLabel(p.AgeGroup)
	if p.OpponentGender != "" {
		line += " -> " + style.GenderLabel(p.OpponentGender)
	} else {
		line += " -> other person not set"
	}
	return line
}
