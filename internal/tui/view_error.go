package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/daptalk/internal/llm"
	"github.com/sant0-9/daptalk/internal/pipeline"
)

func (a *App) handleErrorKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	switch msg.String() {
	case "r":
		s.processingError = nil
		switch s.lastPayload {
		case payloadImages, payloadText:
			return a.generateFromCompose()
		case payloadConversation:
			return a.regenerate()
		}
	case "s":
		s.processingError = nil
		a.view = viewCompose
		a.openSettings()
	case "e":
		s.processingError = nil
		a.openEditor()
	case "n", "esc":
		s.processingError = nil
		s.notice = ""
		a.view = viewCompose
		return s.compose.Focus()
	}
	return nil
}

// suggestions maps gateway failure codes onto next steps
func suggestions(err error) []string {
	var pe *llm.ProviderError
	if !errors.As(err, &pe) {
		if errors.Is(err, pipeline.ErrGenerationFailed) {
			return []string{"Try again, or edit the conversation by hand with [e]"}
		}
		return nil
	}

	switch pe.Code {
	case llm.CodeAuthentication:
		return []string{"Check your API key in ~/.config/daptalk/config.yaml", "Or press [s] to open settings"}
	case llm.CodeRateLimit:
		return []string{"You've hit the API rate limit", "Wait a moment and try again"}
	case llm.CodeTransport:
		if pe.Provider == "ollama" {
			return []string{"Make sure Ollama is running: ollama serve", "Or switch to a cloud provider in settings"}
		}
		return []string{"Check your internet connection"}
	case llm.CodeInvalidRequest:
		return []string{"The model may not accept screenshots", "Pick a vision model in settings"}
	case llm.CodeMalformedResponse:
		return []string{"The model returned an empty answer", "Try again or switch models"}
	default:
		return []string{"The provider had a problem, try again shortly"}
	}
}

func (a *App) renderError() string {
	var b strings.Builder

	// Error icon and title
	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// The notice is what users see; the detail is for diagnosis
	msg := a.state.notice
	if msg == "" {
		msg = "Reply generation failed. Please try again."
	}
	err := a.state.processingError
	if err == nil {
		err = a.state.providerError
	}
	if err != nil {
		msg += "\n\n" + styleSubtitle.Render(truncate(err.Error(), 300))
	}

	errBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		BorderForeground(colorError).
		Render(msg)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	if hints := suggestions(err); len(hints) > 0 {
		suggBox := styleBox.Copy().
			Width(min(60, a.width-4)).
			BorderForeground(colorMuted).
			Render("Suggestions:\n" + strings.Join(hints, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
		b.WriteString("\n\n")
	}

	// Actions
	status := styleStatusBar.Render("[r] Retry  [e] Edit conversation  [s] Settings  [n] New  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
