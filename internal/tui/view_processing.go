package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/daptalk/internal/pipeline"
)

func (a *App) renderProcessing() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(a.state.spinner.View() + " Generating replies")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Source info
	var source string
	switch a.state.lastPayload {
	case payloadImages:
		source = fmt.Sprintf("Reading %d screenshot(s)", a.state.images.Len())
	case payloadConversation:
		source = fmt.Sprintf("From %d edited messages", a.state.conversation.Len())
	default:
		source = "From pasted text"
	}
	info := styleSubtitle.Render(source + ", " + a.state.mode.String() + " mode")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, info))
	b.WriteString("\n\n")

	// Progress stages, in the order the flow runs them
	stages := []pipeline.Stage{pipeline.StageValidating, pipeline.StageAnalyzing, pipeline.StageGenerating}
	if a.state.lastPayload == payloadImages {
		stages = []pipeline.Stage{pipeline.StageValidating, pipeline.StageGenerating, pipeline.StageParsing, pipeline.StageAnalyzing}
	}
	current := 0
	if a.state.progress != nil {
		current = len(stages)
		for i, stage := range stages {
			if stage == a.state.progress.Stage {
				current = i
			}
		}
	}

	var stageLines []string
	for i, stage := range stages {
		var icon string
		var style lipgloss.Style

		if i < current {
			// Completed
			icon = "[x]"
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		} else if i == current {
			// Current
			icon = "[>]"
			style = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
		} else {
			// Pending
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(colorMuted)
		}

		// Progress bar for the per-style calls
		var progressBar string
		if i == current && a.state.progress != nil {
			p := a.state.progress
			if p.TotalItems > 0 {
				pct := float64(p.ItemIndex) / float64(p.TotalItems)
				filled := int(pct * 20)
				empty := 20 - filled
				progressBar = "  " +
					lipgloss.NewStyle().Foreground(colorSecondary).Render(strings.Repeat("=", filled)) +
					lipgloss.NewStyle().Foreground(colorMuted).Render(strings.Repeat("-", empty)) +
					fmt.Sprintf("  %d/%d", p.ItemIndex, p.TotalItems)
			}
		}

		line := style.Render(fmt.Sprintf("  %s  %-12s", icon, stage)) + progressBar
		stageLines = append(stageLines, line)
	}

	stagesBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(stageLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, stagesBox))
	b.WriteString("\n\n")

	// Message
	if a.state.progress != nil && a.state.progress.Message != "" {
		msg := styleSubtitle.Render(truncate(a.state.progress.Message, 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, msg))
	}

	return a.centerVertically(b.String())
}
