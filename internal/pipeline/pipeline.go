package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sant0-9/daptalk/internal/analysis"
	"github.com/sant0-9/daptalk/internal/attachment"
	"github.com/sant0-9/daptalk/internal/conversation"
	"github.com/sant0-9/daptalk/internal/llm"
	"github.com/sant0-9/daptalk/internal/parser"
	"github.com/sant0-9/daptalk/internal/prompts"
	"github.com/sant0-9/daptalk/internal/reply"
	"github.com/sant0-9/daptalk/internal/session"
	"github.com/sant0-9/daptalk/internal/style"
	"github.com/sant0-9/daptalk/internal/usage"
	"github.com/sant0-9/daptalk/internal/writer"
)

// RecentWindow is how many trailing messages feed the intent analysis and
// the per-style prompts
const RecentWindow = 4

// Stage represents a pipeline stage
type Stage int

const (
	StageValidating Stage = iota
	StageAnalyzing
	StageGenerating
	StageParsing
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "Validating"
	case StageAnalyzing:
		return "Analyzing"
	case StageGenerating:
		return "Generating"
	case StageParsing:
		return "Parsing"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Progress represents pipeline progress
type Progress struct {
	Stage      Stage
	ItemIndex  int
	TotalItems int
	Message    string
}

// Request is the input of one generation cycle. Which fields matter
// depends on the entry point.
type Request struct {
	Mode     style.Mode
	Profile  style.Profile
	Images   []llm.Image
	Messages []conversation.Message
	Text     string
}

// Result contains pipeline output. Replies always holds the full set of
// four for the request's mode.
type Result struct {
	Messages    []conversation.Message
	Replies     []reply.Suggestion
	LatestOther string
	SpeechStyle string
	Intent      string
}

// Pipeline runs generation cycles one at a time
type Pipeline struct {
	mu sync.Mutex

	provider  llm.Provider
	model     string
	analyzer  *analysis.Analyzer
	writer    *writer.Writer
	extractor *conversation.Extractor
	counter   *usage.Counter
	session   *session.Context
	logger    *zap.Logger

	onProgress func(Progress)
}

// NewPipeline wires a pipeline. counter may be nil for an unmetered
// pipeline; sess carries analyses across cycles.
func NewPipeline(provider llm.Provider, model string, counter *usage.Counter, sess *session.Context, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sess == nil {
		sess = &session.Context{}
	}
	return &Pipeline{
		provider:  provider,
		model:     model,
		analyzer:  analysis.NewAnalyzer(provider, model, logger),
		writer:    writer.NewWriter(provider, model, logger),
		extractor: conversation.NewExtractor(),
		counter:   counter,
		session:   sess,
		logger:    logger.Named("pipeline"),
	}
}

// SetProgressCallback sets the progress callback
func (p *Pipeline) SetProgressCallback(fn func(Progress)) {
	p.onProgress = fn
}

// Session exposes the context shared across cycles
func (p *Pipeline) Session() *session.Context {
	return p.session
}

func (p *Pipeline) progress(pr Progress) {
	if p.onProgress != nil {
		p.onProgress(pr)
	}
}

func (p *Pipeline) validateProfile(req *Request) error {
	if req.Mode == style.Relationship && !req.Profile.Complete() {
		return invalid(msgProfileRequired)
	}
	return nil
}

func (p *Pipeline) gate() error {
	if p.counter == nil {
		return nil
	}
	if err := p.counter.Allow(); err != nil {
		if errors.Is(err, usage.ErrQuotaExceeded) {
			p.logger.Info("daily quota reached", zap.Int("limit", p.counter.Limit()))
			return ErrQuotaExceeded
		}
		return fmt.Errorf("check usage: %w", err)
	}
	return nil
}

func (p *Pipeline) record() {
	if p.counter == nil {
		return
	}
	if err := p.counter.Record(); err != nil {
		// the replies are already produced; a lost count is not worth failing the cycle
		p.logger.Warn("failed to record usage", zap.Error(err))
		return
	}
	p.logger.Debug("usage recorded", zap.Stringer("status", p.counter.Status()), zap.Int("remaining", p.counter.Remaining()))
}

func generationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

// FromScreenshots reads the conversation out of one or two screenshots and
// produces all four replies with a single multimodal call.
func (p *Pipeline) FromScreenshots(ctx context.Context, req Request) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.progress(Progress{Stage: StageValidating, Message: "Checking screenshots..."})
	if len(req.Images) == 0 {
		return nil, invalid(msgNoImages)
	}
	if len(req.Images) > attachment.MaxImages {
		return nil, invalid(attachment.ErrTooManyImages.Error())
	}
	if err := p.validateProfile(&req); err != nil {
		return nil, err
	}
	if err := p.gate(); err != nil {
		return nil, err
	}

	snap := p.session.Snapshot()
	in := prompts.Input{
		Profile:     req.Profile,
		Mode:        req.Mode,
		SpeechStyle: snap.SpeechStyle,
		Intent:      snap.Intent,
	}

	p.progress(Progress{Stage: StageGenerating, TotalItems: 1, Message: "Reading the conversation..."})
	llmReq := llm.NewRequest(p.model, "", prompts.BuildScreenshot(in, len(req.Images))).WithImages(req.Images...)
	llmReq.MaxTokens = 4096

	start := time.Now()
	resp, err := p.provider.Complete(ctx, llmReq)
	if err != nil {
		p.logger.Error("screenshot call failed", zap.String("provider", p.provider.Name()), zap.Error(err))
		return nil, generationFailed(err)
	}
	raw := resp.Content
	p.logger.Info("screenshot call done",
		zap.String("provider", p.provider.Name()),
		zap.Int("images", len(req.Images)),
		zap.Duration("took", time.Since(start)),
		zap.Int("bytes", len(raw)),
	)

	p.progress(Progress{Stage: StageParsing, Message: "Parsing response..."})
	sections := parser.Parse(raw, prompts.SectionHeadings(req.Mode)...)
	msgs := p.extractor.Extract(sections.Body(parser.HeadingConversation), raw)
	conv := conversation.New(msgs)

	latest := strings.TrimSpace(sections.Body(parser.HeadingLatestOther))
	if latest == "" && conv.LatestOther() != conversation.PlaceholderText {
		latest = conv.LatestOther()
	}
	replies := reply.Assemble(req.Mode, sections)

	p.logger.Info("response parsed",
		zap.Int("sections", sections.Len()),
		zap.Int("messages", len(msgs)),
		zap.Int("fallbacks", countFallbacks(req.Mode, replies)),
	)

	p.session.Update(session.Context{
		SpeechStyle: sections.Body(parser.HeadingSpeechStyle),
		LatestOther: latest,
	})

	p.progress(Progress{Stage: StageAnalyzing, Message: "Analyzing intent..."})
	in.LatestOther = latest
	in.Recent = conv.Recent(RecentWindow)
	p.analyzeIntent(ctx, in)

	p.record()
	p.progress(Progress{Stage: StageDone, Message: "Replies ready"})

	snap = p.session.Snapshot()
	return &Result{
		Messages:    msgs,
		Replies:     replies,
		LatestOther: latest,
		SpeechStyle: snap.SpeechStyle,
		Intent:      snap.Intent,
	}, nil
}

// FromConversation generates replies for an edited or pasted conversation:
// speech-style and intent analyses first, then one call per style. Used for
// regenerate as well.
func (p *Pipeline) FromConversation(ctx context.Context, req Request) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fromConversation(ctx, req)
}

// FromText turns pasted text into a conversation and continues as
// FromConversation. Lines without sender markers are taken as the other
// person's when no line carries a marker.
func (p *Pipeline) FromText(ctx context.Context, req Request) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.progress(Progress{Stage: StageValidating, Message: "Reading text..."})
	if strings.TrimSpace(req.Text) == "" {
		return nil, invalid(msgNoText)
	}
	req.Messages = p.extractor.ExtractPlain(req.Text)
	if len(req.Messages) == 0 {
		return nil, invalid(msgNoText)
	}
	return p.fromConversation(ctx, req)
}

func (p *Pipeline) fromConversation(ctx context.Context, req Request) (*Result, error) {
	p.progress(Progress{Stage: StageValidating, Message: "Checking conversation..."})
	if len(req.Messages) == 0 {
		return nil, invalid(msgNoConversation)
	}
	conv := conversation.New(req.Messages)
	latest := strings.TrimSpace(conv.LatestOther())
	if latest == "" {
		return nil, invalid(msgNoOtherMessage)
	}
	if err := p.validateProfile(&req); err != nil {
		return nil, err
	}
	if err := p.gate(); err != nil {
		return nil, err
	}

	in := prompts.Input{
		Profile:     req.Profile,
		Mode:        req.Mode,
		LatestOther: latest,
		Recent:      conv.Recent(RecentWindow),
	}

	p.progress(Progress{Stage: StageAnalyzing, Message: "Analyzing speech style..."})
	speech, err := p.analyzer.SpeechStyle(ctx, conv.SelfTexts())
	if err != nil {
		p.logger.Warn("speech style analysis skipped", zap.Error(err))
	}
	p.session.Update(session.Context{SpeechStyle: speech, LatestOther: latest})

	p.progress(Progress{Stage: StageAnalyzing, Message: "Analyzing intent..."})
	p.analyzeIntent(ctx, in)

	snap := p.session.Snapshot()
	in.SpeechStyle = snap.SpeechStyle
	in.Intent = snap.Intent

	total := len(style.Table(req.Mode))
	texts, err := p.writer.WriteAll(ctx, in, func(i int, s style.Style) {
		p.progress(Progress{
			Stage:      StageGenerating,
			ItemIndex:  i + 1,
			TotalItems: total,
			Message:    fmt.Sprintf("Writing %s (%d/%d)", s.Name, i+1, total),
		})
	})
	if err != nil {
		p.logger.Error("reply generation failed", zap.String("provider", p.provider.Name()), zap.Error(err))
		return nil, generationFailed(err)
	}

	replies := reply.FromTexts(req.Mode, texts)
	p.logger.Info("replies generated",
		zap.Int("messages", conv.Len()),
		zap.Int("fallbacks", countFallbacks(req.Mode, replies)),
	)

	p.record()
	p.progress(Progress{Stage: StageDone, Message: "Replies ready"})

	return &Result{
		Messages:    conv.Messages(),
		Replies:     replies,
		LatestOther: latest,
		SpeechStyle: snap.SpeechStyle,
		Intent:      snap.Intent,
	}, nil
}

// analyzeIntent refreshes the session intent. A failed analysis keeps the
// previous value.
func (p *Pipeline) analyzeIntent(ctx context.Context, in prompts.Input) {
	intent, err := p.analyzer.Intent(ctx, in, "")
	if err != nil {
		p.logger.Warn("intent analysis skipped", zap.Error(err))
		return
	}
	p.session.Update(session.Context{Intent: intent})
}

func countFallbacks(mode style.Mode, replies []reply.Suggestion) int {
	n := 0
	for _, r := range replies {
		if reply.Fallback(mode, r) {
			n++
		}
	}
	return n
}
