package writer

import (
	"context"
	"errors"
	"testing"

	"github.com/sant0-9/daptalk/internal/llm/llmtest"
	"github.com/sant0-9/daptalk/internal/prompts"
	"github.com/sant0-9/daptalk/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteAllInTableOrder(t *testing.T) {
	fake := llmtest.New(" one ", "two", "three", "four")
	w := NewWriter(fake, "m", zap.NewNop())

	in := prompts.Input{Mode: style.Relationship, LatestOther: "hey", Intent: "wants to chat"}

	var seen []string
	texts, err := w.WriteAll(context.Background(), in, func(i int, s style.Style) {
		seen = append(seen, s.Name)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three", "four"}, texts)
	assert.Equal(t, style.Names(style.Relationship), seen)
	require.Equal(t, 4, fake.CallCount())

	for i, s := range style.Table(style.Relationship) {
		p := fake.Prompt(i)
		assert.Contains(t, p, s.Instruction)
		assert.Contains(t, p, `"wants to chat"`, "every call sees the same snapshot")
	}
}

func TestWriteAllAbortsOnFirstError(t *testing.T) {
	boom := errors.New("rate limited")
	fake := llmtest.New("first").Fail(boom)
	w := NewWriter(fake, "", nil)

	texts, err := w.WriteAll(context.Background(), prompts.Input{LatestOther: "hi"}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Polite Style")
	assert.Nil(t, texts)
	assert.Equal(t, 2, fake.CallCount())
}

func TestWriteKeepsEmptyText(t *testing.T) {
	fake := llmtest.New("   ")
	got, err := NewWriter(fake, "", nil).Write(context.Background(), prompts.Input{}, style.Table(style.General)[0])
	require.NoError(t, err)
	assert.Empty(t, got)
}
