package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sant0-9/daptalk/internal/config"
	"github.com/sant0-9/daptalk/internal/llm"
	"github.com/sant0-9/daptalk/internal/pipeline"
	"github.com/sant0-9/daptalk/internal/settings"
	"github.com/sant0-9/daptalk/internal/usage"
)

type view int

const (
	viewCompose view = iota
	viewSetup
	viewConversation
	viewProcessing
	viewReplies
	viewSettings
	viewHelp
	viewError
	viewQuota
)

type App struct {
	width    int
	height   int
	view     view
	state    *state
	logger   *zap.Logger
	program  *tea.Program
	quitting bool
}

// NewApp builds the app from loaded config. The settings store holds the
// profile and usage counter; it is read once here.
func NewApp(cfg *config.Config, store *settings.Store, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := newState()
	s.config = cfg
	s.store = store
	s.needsSetup = !cfg.Ready()

	profile, err := store.LoadProfile()
	if err != nil {
		return nil, err
	}
	s.profile = profile

	counter, err := usage.NewCounter(cfg.Usage.DailyLimit, store, nil)
	if err != nil {
		return nil, err
	}
	s.counter = counter

	return &App{
		view:   viewCompose,
		state:  s,
		logger: logger.Named("tui"),
	}, nil
}

// SetProgram lets pipeline progress reach the running program
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	// Test provider connection
	return tea.Batch(
		tea.WindowSize(),
		a.state.compose.Focus(),
		textarea.Blink,
		a.testProvider(),
	)
}

func (a *App) testProvider() tea.Cmd {
	cfg := *a.state.config
	return func() tea.Msg {
		provider, err := llm.NewProvider(&cfg)
		if err != nil {
			return providerErrorMsg{err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := provider.Ping(ctx); err != nil {
			return providerErrorMsg{err}
		}

		return providerReadyMsg{provider}
	}
}

// usePipeline wires a provider into a fresh pipeline sharing the session
// and usage counter
func (a *App) usePipeline(provider llm.Provider) {
	a.state.provider = provider
	a.state.providerReady = true
	a.state.providerError = nil

	p := pipeline.NewPipeline(provider, a.state.config.Model, a.state.counter, a.state.session, a.logger)
	p.SetProgressCallback(func(pr pipeline.Progress) {
		if a.program != nil {
			a.program.Send(progressMsg(pr))
		}
	})
	a.state.pipeline = p

	a.logger.Info("provider ready",
		zap.String("provider", provider.Name()),
		zap.String("model", a.state.config.Model),
	)
}

type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }
type providerReadyMsg struct{ provider llm.Provider }
type providerErrorMsg struct{ error }
type progressMsg pipeline.Progress
type generationDoneMsg struct{ result *pipeline.Result }
type generationErrorMsg struct{ error }
type clipboardPasteMsg struct {
	text string
	err  error
}
type clipboardCopyMsg struct {
	style string
	err   error
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := a.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			return a, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.state.compose.SetWidth(min(66, max(20, a.width-8)))

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.view = viewCompose
		return a, tea.Batch(a.state.compose.Focus(), a.testProvider())

	case setupErrorMsg:
		a.state.processingError = msg.error
		a.state.notice = "Could not save the configuration."
		a.view = viewError
		return a, nil

	case providerReadyMsg:
		a.usePipeline(msg.provider)
		return a, nil

	case providerErrorMsg:
		a.state.providerError = msg.error
		a.logger.Warn("provider check failed", zap.Error(msg.error))
		return a, nil

	case progressMsg:
		p := pipeline.Progress(msg)
		a.state.progress = &p
		return a, nil

	case generationDoneMsg:
		a.onGenerated(msg.result)
		return a, nil

	case generationErrorMsg:
		a.onGenerationError(msg.error)
		return a, nil

	case clipboardPasteMsg:
		if msg.err != nil {
			a.state.notice = "Clipboard is empty or unavailable."
			return a, nil
		}
		a.state.compose.InsertString(msg.text)
		return a, nil

	case clipboardCopyMsg:
		if msg.err != nil {
			a.state.notice = "Could not copy to the clipboard."
		} else {
			a.state.notice = "Copied " + msg.style + " reply."
		}
		return a, nil
	}

	if a.state.processing {
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update text inputs based on view
	switch {
	case a.view == viewSetup && a.state.setupStep == 1,
		a.view == viewSettings && a.state.settingsMode == "apikey":
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		cmds = append(cmds, cmd)
	case a.view == viewCompose && a.state.attaching:
		var cmd tea.Cmd
		a.state.pathInput, cmd = a.state.pathInput.Update(msg)
		cmds = append(cmds, cmd)
	case a.view == viewCompose:
		var cmd tea.Cmd
		a.state.compose, cmd = a.state.compose.Update(msg)
		cmds = append(cmds, cmd)
	case a.view == viewConversation && a.state.editing != editNone:
		var cmd tea.Cmd
		a.state.editInput, cmd = a.state.editInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKey returns handled=true when the key must not reach the focused
// text component
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit, true
	}

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewCompose:
		return a.handleComposeKey(msg)
	case viewConversation:
		return a.handleConversationKey(msg)
	case viewReplies:
		return a.handleRepliesKey(msg), true
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewError:
		return a.handleErrorKey(msg), true
	case viewQuota:
		return a.handleQuotaKey(msg), true
	case viewHelp:
		if key.Matches(msg, keys.Quit) || key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Help) {
			a.view = viewCompose
		}
		return nil, true
	case viewProcessing:
		// cycles run to completion
		return nil, true
	}
	return nil, false
}

func (a *App) handleSetupKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch a.state.setupStep {
	case 0: // Provider selection
		switch {
		case key.Matches(msg, keys.Quit):
			a.quitting = true
			return tea.Quit, true
		case key.Matches(msg, keys.Up):
			if a.state.selectedProvider > 0 {
				a.state.selectedProvider--
			}
		case key.Matches(msg, keys.Down):
			if a.state.selectedProvider < len(config.Providers)-1 {
				a.state.selectedProvider++
			}
		case key.Matches(msg, keys.Enter):
			provider := config.Providers[a.state.selectedProvider]
			a.state.config.Provider = provider.ID
			a.state.config.Model = provider.DefaultModel

			if provider.NeedsAPIKey {
				a.state.setupStep = 1
				return a.state.apiKeyInput.Focus(), true
			}
			return a.finishSetup(), true
		}
		return nil, true

	case 1: // API key entry
		switch {
		case key.Matches(msg, keys.Quit):
			// Go back to provider selection
			a.state.setupStep = 0
			a.state.apiKeyInput.Reset()
			return nil, true
		case key.Matches(msg, keys.Enter):
			a.state.config.APIKey = a.state.apiKeyInput.Value()
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Blur()
			return a.finishSetup(), true
		}
	}

	return nil, false
}

func (a *App) finishSetup() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		if err := cfg.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

// generate runs one pipeline cycle off the UI loop
func (a *App) generate(from payload, run func(*pipeline.Pipeline, context.Context, pipeline.Request) (*pipeline.Result, error), req pipeline.Request) tea.Cmd {
	if a.state.pipeline == nil {
		a.state.notice = "The model provider is not ready yet."
		return nil
	}

	a.state.returnTo = a.view
	a.state.lastPayload = from
	a.state.processing = true
	a.state.progress = nil
	a.state.notice = ""
	a.view = viewProcessing

	p := a.state.pipeline
	return tea.Batch(a.state.spinner.Tick, func() tea.Msg {
		res, err := run(p, context.Background(), req)
		if err != nil {
			return generationErrorMsg{err}
		}
		return generationDoneMsg{res}
	})
}

func (a *App) request() pipeline.Request {
	return pipeline.Request{
		Mode:    a.state.mode,
		Profile: a.state.profile,
	}
}

func (a *App) onGenerated(res *pipeline.Result) {
	a.state.processing = false
	a.state.conversation.Replace(res.Messages)
	a.state.replies = res.Replies
	a.state.selected = 0
	a.state.cursor = 0
	a.view = viewReplies
}

func (a *App) onGenerationError(err error) {
	a.state.processing = false

	var ve *pipeline.ValidationError
	switch {
	case errors.Is(err, pipeline.ErrQuotaExceeded):
		a.view = viewQuota
		return
	case errors.As(err, &ve):
		a.state.notice = ve.Message
		a.view = a.state.returnTo
		return
	}

	a.logger.Error("generation failed", zap.Error(err))
	a.state.processingError = err
	a.state.notice = "Reply generation failed. Please try again."
	a.view = viewError
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewCompose:
		return a.renderCompose()
	case viewConversation:
		return a.renderConversation()
	case viewProcessing:
		return a.renderProcessing()
	case viewReplies:
		return a.renderReplies()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	case viewError:
		return a.renderError()
	case viewQuota:
		return a.renderQuota()
	default:
		return a.renderCompose()
	}
}
