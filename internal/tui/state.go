package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sant0-9/daptalk/internal/attachment"
	"github.com/sant0-9/daptalk/internal/config"
	"github.com/sant0-9/daptalk/internal/conversation"
	"github.com/sant0-9/daptalk/internal/llm"
	"github.com/sant0-9/daptalk/internal/pipeline"
	"github.com/sant0-9/daptalk/internal/reply"
	"github.com/sant0-9/daptalk/internal/session"
	"github.com/sant0-9/daptalk/internal/settings"
	"github.com/sant0-9/daptalk/internal/style"
	"github.com/sant0-9/daptalk/internal/usage"
)

type state struct {
	// Config
	config     *config.Config
	store      *settings.Store
	needsSetup bool

	// Setup wizard state
	setupStep        int
	selectedProvider int
	apiKeyInput      textinput.Model

	// Settings
	settingsMode     string
	settingsSelected int

	// Who is talking
	profile style.Profile
	mode    style.Mode
	counter *usage.Counter
	session *session.Context

	// Compose
	compose     textarea.Model
	pathInput   textinput.Model
	attaching   bool
	images      attachment.Set
	lastPayload payload

	// Conversation editor
	conversation *conversation.Conversation
	cursor       int
	editInput    textinput.Model
	editing      int // index being edited, -1 when adding, editNone otherwise

	// Replies
	replies  []reply.Suggestion
	selected int

	// Processing
	processing bool
	progress   *pipeline.Progress
	spinner    spinner.Model
	returnTo   view

	// Notices
	notice          string
	processingError error

	// Provider
	provider      llm.Provider
	pipeline      *pipeline.Pipeline
	providerReady bool
	providerError error
}

// payload is what the last generation was run from, for retry
type payload int

const (
	payloadNone payload = iota
	payloadImages
	payloadText
	payloadConversation
)

const editNone = -2

func newState() *state {
	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	compose := textarea.New()
	compose.Placeholder = "Paste or type the conversation...\nOther person: ...\nMe: ..."
	compose.ShowLineNumbers = false
	compose.CharLimit = 5000
	compose.SetWidth(66)
	compose.SetHeight(8)

	path := textinput.New()
	path.Placeholder = "Path to a chat screenshot (png, jpg, webp, gif)"
	path.CharLimit = 500
	path.Width = 60

	edit := textinput.New()
	edit.CharLimit = 1000
	edit.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	return &state{
		apiKeyInput:  apiKey,
		compose:      compose,
		pathInput:    path,
		editInput:    edit,
		editing:      editNone,
		spinner:      sp,
		session:      &session.Context{},
		conversation: conversation.New(nil),
	}
}
