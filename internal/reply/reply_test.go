package reply

import (
	"testing"

	"github.com/sant0-9/daptalk/internal/parser"
	"github.com/sant0-9/daptalk/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleAlwaysFour(t *testing.T) {
	inputs := []string{
		"",
		"no delimiters at all",
		"=== Unrelated ===\nbody",
		"=== Friendly Style ===",
	}

	for _, mode := range []style.Mode{style.General, style.Relationship} {
		for _, raw := range inputs {
			sections := parser.Parse(raw, Headings(mode)...)
			got := Assemble(mode, sections)

			require.Len(t, got, style.Count)
			for i, sg := range got {
				assert.Equal(t, style.Names(mode)[i], sg.Style)
				assert.NotEmpty(t, sg.Text)
				assert.NotEmpty(t, sg.ID)
			}
		}
	}
}

func TestAssembleUsesParsedText(t *testing.T) {
	raw := "=== Friendly Style ===\n  Yeah sure!  \n=== Polite Style ===\n   \n=== Humorous Style ===\nha\n=== Polite Rejection ===\nno thanks"
	got := Assemble(style.General, parser.Parse(raw, Headings(style.General)...))

	require.Len(t, got, 4)
	assert.Equal(t, "Yeah sure!", got[0].Text)
	assert.Equal(t, style.Table(style.General)[1].Fallback, got[1].Text)
	assert.True(t, Fallback(style.General, got[1]))
	assert.Equal(t, "ha", got[2].Text)
	assert.Equal(t, "no thanks", got[3].Text)
	assert.False(t, Fallback(style.General, got[0]))
}

func TestFromTexts(t *testing.T) {
	got := FromTexts(style.Relationship, []string{"a", "", "c"})

	require.Len(t, got, 4)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, style.Table(style.Relationship)[1].Fallback, got[1].Text)
	assert.Equal(t, "c", got[2].Text)
	assert.Equal(t, style.Table(style.Relationship)[3].Fallback, got[3].Text)
}

func TestFallbacksDifferByMode(t *testing.T) {
	g := Fallbacks(style.General)
	r := Fallbacks(style.Relationship)
	for i := range g {
		assert.NotEqual(t, g[i].Text, r[i].Text)
	}
}

func TestIDsUnique(t *testing.T) {
	got := Fallbacks(style.General)
	seen := map[string]bool{}
	for _, sg := range got {
		assert.False(t, seen[sg.ID])
		seen[sg.ID] = true
	}
}
