package writer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sant0-9/daptalk/internal/llm"
	"github.com/sant0-9/daptalk/internal/prompts"
	"github.com/sant0-9/daptalk/internal/style"
)

// Writer generates reply text for the text flow, one call per style
type Writer struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewWriter creates a new writer
func NewWriter(provider llm.Provider, model string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		provider: provider,
		model:    model,
		logger:   logger.Named("writer"),
	}
}

// Write generates the reply for a single style
func (w *Writer) Write(ctx context.Context, in prompts.Input, s style.Style) (string, error) {
	start := time.Now()

	resp, err := w.provider.Complete(ctx, llm.NewRequest(w.model, "", prompts.BuildReply(in, s)))
	if err != nil {
		return "", fmt.Errorf("write %s: %w", s.Name, err)
	}

	text := strings.TrimSpace(resp.Content)
	w.logger.Debug("reply written",
		zap.String("style", s.Name),
		zap.Duration("took", time.Since(start)),
		zap.Int("bytes", len(text)),
	)
	return text, nil
}

// Progress is called before each style is written
type Progress func(i int, s style.Style)

// WriteAll writes the four styles of in.Mode in table order. Every call sees
// the same input; the first failure aborts the batch.
func (w *Writer) WriteAll(ctx context.Context, in prompts.Input, progress Progress) ([]string, error) {
	table := style.Table(in.Mode)
	texts := make([]string, 0, len(table))

	for i, s := range table {
		if progress != nil {
			progress(i, s)
		}
		text, err := w.Write(ctx, in, s)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}

	return texts, nil
}
