// Package analysis runs the two side analyses that steer reply generation:
// how the user writes, and what the other person wants.
package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sant0-9/daptalk/internal/llm"
	"github.com/sant0-9/daptalk/internal/prompts"
)

// Analyzer wraps a provider for the analysis calls
type Analyzer struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(provider llm.Provider, model string, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		provider: provider,
		model:    model,
		logger:   logger.Named("analysis"),
	}
}

// SpeechStyle summarizes the user's speech characteristics from their own
// messages. No call is made when there are none.
func (a *Analyzer) SpeechStyle(ctx context.Context, selfTexts []string) (string, error) {
	var texts []string
	for _, t := range selfTexts {
		if t = strings.TrimSpace(t); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return "", nil
	}

	return a.complete(ctx, "speech_style", prompts.BuildSpeechStyle(texts))
}

// Intent analyzes the intent behind in.LatestOther. No call is made when
// there is no message from the other person.
func (a *Analyzer) Intent(ctx context.Context, in prompts.Input, conversation string) (string, error) {
	if strings.TrimSpace(in.LatestOther) == "" {
		return "", nil
	}

	return a.complete(ctx, "intent", prompts.BuildIntent(in, conversation))
}

func (a *Analyzer) complete(ctx context.Context, kind, prompt string) (string, error) {
	start := time.Now()
	req := llm.NewRequest(a.model, "", prompt)
	req.MaxTokens = 512

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		a.logger.Warn("analysis failed", zap.String("kind", kind), zap.Error(err))
		return "", err
	}

	result := strings.TrimSpace(resp.Content)
	a.logger.Debug("analysis done",
		zap.String("kind", kind),
		zap.Duration("took", time.Since(start)),
		zap.Int("bytes", len(result)),
	)
	return result, nil
}
