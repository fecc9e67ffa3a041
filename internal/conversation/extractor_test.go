package conversation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedExtractor(t *testing.T) *Extractor {
	t.Helper()
	n := 0
	return &Extractor{
		now: func() time.Time { return time.UnixMilli(1_700_000_000_000) },
		newID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
	}
}

func TestExtractMarkers(t *testing.T) {
	e := fixedExtractor(t)
	body := "Other person: hey, you free this weekend?\nMe: maybe, why?"

	msgs := e.Extract(body, "")

	require.Len(t, msgs, 2)
	assert.Equal(t, Other, msgs[0].Sender)
	assert.Equal(t, "hey, you free this weekend?", msgs[0].Text)
	assert.Equal(t, Self, msgs[1].Sender)
	assert.Equal(t, "maybe, why?", msgs[1].Text)
}

func TestExtractDiscardsUnmarkedAndEmpty(t *testing.T) {
	e := fixedExtractor(t)
	body := "(List all messages)\nOther person:   \nMe: ok\nrandom line"

	msgs := e.Extract(body, "")

	require.Len(t, msgs, 1)
	assert.Equal(t, "ok", msgs[0].Text)
}

func TestExtractSequenceMonotonic(t *testing.T) {
	e := fixedExtractor(t)
	body := "Me: one\n\nOther person: two\nnoise\nMe: three\nOther person: four"

	msgs := e.Extract(body, "")

	require.Len(t, msgs, 4)
	base := int64(1_700_000_000_000)
	assert.Equal(t, base+0, msgs[0].Sequence)
	assert.Equal(t, base+2, msgs[1].Sequence)
	assert.Equal(t, base+4, msgs[2].Sequence)
	assert.Equal(t, base+5, msgs[3].Sequence)
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i].Sequence, msgs[i-1].Sequence)
	}
}

func TestExtractUniqueIDs(t *testing.T) {
	e := NewExtractor()
	body := "Me: a\nMe: b\nOther person: c\nOther person: d"

	msgs := e.Extract(body, "")

	ids := map[string]bool{}
	for _, m := range msgs {
		assert.False(t, ids[m.ID], "duplicate id %s", m.ID)
		ids[m.ID] = true
	}
}

func TestExtractLooseFallback(t *testing.T) {
	e := fixedExtractor(t)
	raw := "=== Conversation ===\n1. Other person - are you there?\n2. Me: yes\n=== Other person ===\n"

	msgs := e.Extract("nothing useful", raw)

	require.Len(t, msgs, 2)
	assert.Equal(t, Other, msgs[0].Sender)
	assert.Equal(t, "- are you there?", msgs[0].Text)
	assert.Equal(t, Self, msgs[1].Sender)
	assert.Equal(t, "yes", msgs[1].Text)
}

func TestExtractNeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
		raw  string
	}{
		{"empty", "", ""},
		{"no markers", "hello\nworld", "hello\nworld"},
		{"markers only", "Me:\nOther person:", "=== Me: ==="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := fixedExtractor(t).Extract(tt.body, tt.raw)
			require.Len(t, msgs, 1)
			assert.Equal(t, Other, msgs[0].Sender)
			assert.Equal(t, PlaceholderText, msgs[0].Text)
			assert.NotEmpty(t, msgs[0].ID)
		})
	}
}

func TestExtractPlain(t *testing.T) {
	e := fixedExtractor(t)

	msgs := e.ExtractPlain("are you coming tonight?\n\nlet me know")
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, Other, m.Sender)
	}

	msgs = e.ExtractPlain("Other person: hi\nMe: hello")
	require.Len(t, msgs, 2)
	assert.Equal(t, Self, msgs[1].Sender)

	assert.Empty(t, e.ExtractPlain("   \n"))
}
