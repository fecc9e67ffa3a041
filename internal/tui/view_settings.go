package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sant0-9/daptalk/internal/config"
	"github.com/sant0-9/daptalk/internal/style"
	"github.com/sant0-9/daptalk/internal/usage"
)

var genderChoices = []string{style.Male, style.Female, ""}

func (a *App) openSettings() {
	a.state.returnTo = a.view
	if a.view == viewSettings {
		a.state.returnTo = viewCompose
	}
	a.state.settingsMode = ""
	a.state.settingsSelected = 0
	a.state.compose.Blur()
	a.view = viewSettings
}

// settingsChoices lists the options of the current picker
func (a *App) settingsChoices() []string {
	switch a.state.settingsMode {
	case "provider":
		ids := make([]string, len(config.Providers))
		for i, p := range config.Providers {
			ids[i] = p.ID
		}
		return ids
	case "model":
		if p := config.GetProvider(a.state.config.Provider); p != nil {
			return p.Models
		}
	case "gender", "opponent":
		return genderChoices
	case "age":
		return append(append([]string(nil), style.AgeGroups...), "")
	}
	return nil
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state

	switch s.settingsMode {
	case "":
		switch {
		case key.Matches(msg, keys.Quit):
			a.view = s.returnTo
			if a.view == viewCompose {
				return s.compose.Focus(), true
			}
			return nil, true
		}

		switch msg.String() {
		case "p":
			s.settingsMode = "provider"
		case "m":
			s.settingsMode = "model"
		case "k":
			s.settingsMode = "apikey"
			return s.apiKeyInput.Focus(), true
		case "g":
			s.settingsMode = "gender"
		case "a":
			s.settingsMode = "age"
		case "o":
			s.settingsMode = "opponent"
		case "u":
			a.togglePremium()
		case "r":
			s.needsSetup = true
			s.setupStep = 0
			a.view = viewSetup
		}
		s.settingsSelected = 0
		return nil, true

	case "apikey":
		switch {
		case key.Matches(msg, keys.Quit):
			s.settingsMode = ""
			s.apiKeyInput.Reset()
			s.apiKeyInput.Blur()
			return nil, true
		case key.Matches(msg, keys.Enter):
			if v := strings.TrimSpace(s.apiKeyInput.Value()); v != "" {
				s.config.APIKey = v
			}
			s.apiKeyInput.Reset()
			s.apiKeyInput.Blur()
			s.settingsMode = ""
			return a.saveConfig(), true
		}
		return nil, false
	}

	// Pickers
	choices := a.settingsChoices()
	switch {
	case key.Matches(msg, keys.Quit):
		s.settingsMode = ""
	case key.Matches(msg, keys.Up):
		if s.settingsSelected > 0 {
			s.settingsSelected--
		}
	case key.Matches(msg, keys.Down):
		if s.settingsSelected < len(choices)-1 {
			s.settingsSelected++
		}
	case key.Matches(msg, keys.Enter):
		if s.settingsSelected >= len(choices) {
			s.settingsMode = ""
			return nil, true
		}
		choice := choices[s.settingsSelected]
		mode := s.settingsMode
		s.settingsMode = ""
		s.settingsSelected = 0

		switch mode {
		case "provider":
			p := config.GetProvider(choice)
			s.config.Provider = p.ID
			s.config.Model = p.DefaultModel
			if p.NeedsAPIKey && s.config.APIKey == "" {
				s.settingsMode = "apikey"
				return s.apiKeyInput.Focus(), true
			}
			return a.saveConfig(), true
		case "model":
			s.config.Model = choice
			return a.saveConfig(), true
		case "gender":
			s.profile.Gender = choice
			a.saveProfile()
		case "age":
			s.profile.AgeGroup = choice
			a.saveProfile()
		case "opponent":
			// per conversation, never written to disk
			s.profile.OpponentGender = choice
		}
	}
	return nil, true
}

// saveConfig persists the config and reconnects with the new settings
func (a *App) saveConfig() tea.Cmd {
	if err := a.state.config.Save(); err != nil {
		a.logger.Error("save config", zap.Error(err))
		a.state.notice = "Could not save the configuration."
		return nil
	}
	a.state.providerReady = false
	a.state.providerError = nil
	a.state.pipeline = nil
	return a.testProvider()
}

func (a *App) saveProfile() {
	if err := a.state.store.SaveProfile(a.state.profile); err != nil {
		a.logger.Error("save profile", zap.Error(err))
		a.state.notice = "Could not save the profile."
	}
}

func (a *App) togglePremium() {
	c := a.state.counter
	on := c.Status() != usage.Premium
	if err := c.SetPremium(on); err != nil {
		a.logger.Error("save premium flag", zap.Error(err))
		a.state.notice = "Could not save the premium setting."
	}
}

func (a *App) renderSettings() string {
	switch a.state.settingsMode {
	case "":
		return a.renderSettingsMain()
	case "apikey":
		return a.renderSettingsAPIKey()
	default:
		return a.renderSettingsPicker()
	}
}

func maskKey(k string) string {
	switch {
	case k == "":
		return "Not set"
	case len(k) > 8:
		return k[:4] + "****" + k[len(k)-4:]
	default:
		return "****"
	}
}

func (a *App) renderSettingsMain() string {
	s := a.state
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	providerName := s.config.Provider
	if p := config.GetProvider(s.config.Provider); p != nil {
		providerName = p.Name
	}

	configLines := []string{
		fmt.Sprintf("  Provider: %s", providerName),
		fmt.Sprintf("  Model:    %s", s.config.Model),
		fmt.Sprintf("  API Key:  %s", maskKey(s.config.APIKey)),
		"",
		fmt.Sprintf("  Me:       %s, %s", style.GenderLabel(s.profile.Gender), style.AgeLabel(s.profile.AgeGroup)),
		fmt.Sprintf("  Other:    %s", style.GenderLabel(s.profile.OpponentGender)),
		fmt.Sprintf("  Plan:     %s (%s)", s.counter.Status(), a.usageLine()),
	}

	configBox := styleBox.Copy().
		Width(50).
		Render(strings.Join(configLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, configBox))
	b.WriteString("\n\n")

	// Actions
	actions := []string{
		"  [p] Change provider",
		"  [m] Change model",
		"  [k] Update API key",
		"  [g] My gender    [a] My age group",
		"  [o] Other person's gender",
		"  [u] Toggle premium",
		"  [r] Reset setup",
	}
	actionsBox := styleBox.Copy().
		Width(50).
		Render(strings.Join(actions, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, actionsBox))
	b.WriteString("\n\n")

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNotice.Render(s.notice)))
		b.WriteString("\n\n")
	}

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) choiceLabel(choice string) string {
	switch a.state.settingsMode {
	case "provider":
		p := config.GetProvider(choice)
		label := fmt.Sprintf("%-12s %s", p.Name, p.Description)
		return label
	case "model":
		if choice == a.state.config.Model {
			return choice + " (current)"
		}
		return choice
	case "gender", "opponent":
		return style.GenderLabel(choice)
	case "age":
		return style.AgeLabel(choice)
	}
	return choice
}

func (a *App) renderSettingsPicker() string {
	var b strings.Builder

	titles := map[string]string{
		"provider": "Select Provider",
		"model":    "Select Model",
		"gender":   "Your Gender",
		"age":      "Your Age Group",
		"opponent": "Other Person's Gender",
	}
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(titles[a.state.settingsMode])
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	choices := a.settingsChoices()
	if len(choices) == 0 {
		desc := styleSubtitle.Render("No provider selected")
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, desc))
		return a.centerVertically(b.String())
	}

	var lines []string
	for i, choice := range choices {
		cursor := "  "
		if i == a.state.settingsSelected {
			cursor = "> "
		}
		line := cursor + a.choiceLabel(choice)
		if i == a.state.settingsSelected {
			line = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(line)
		}
		lines = append(lines, line)
	}

	listBox := styleBox.Copy().
		Width(50).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsAPIKey() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Update API Key")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	desc := "Enter your new API key"
	if p := config.GetProvider(a.state.config.Provider); p != nil && p.SignupURL != "" {
		desc = fmt.Sprintf("Enter your %s API key (%s)", p.Name, p.SignupURL)
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(desc)))
	b.WriteString("\n\n")

	inputBox := styleBox.Copy().
		Width(50).
		BorderForeground(colorPrimary).
		Render(a.state.apiKeyInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Enter] Save  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
