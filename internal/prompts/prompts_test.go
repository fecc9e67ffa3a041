package prompts

import (
	"strings"
	"testing"

	"github.com/sant0-9/daptalk/internal/parser"
	"github.com/sant0-9/daptalk/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScreenshotHeadingOrder(t *testing.T) {
	for _, mode := range []style.Mode{style.General, style.Relationship} {
		t.Run(mode.String(), func(t *testing.T) {
			prompt := BuildScreenshot(Input{Mode: mode}, 1)

			last := -1
			for _, h := range SectionHeadings(mode) {
				idx := strings.Index(prompt, "=== "+h+" ===")
				require.GreaterOrEqual(t, idx, 0, "missing heading %q", h)
				assert.Greater(t, idx, last, "heading %q out of order", h)
				last = idx
			}
		})
	}
}

func TestBuildScreenshotRoundTripsThroughParser(t *testing.T) {
	// The format block itself is a valid response skeleton
	prompt := BuildScreenshot(Input{}, 1)
	sections := parser.Parse(prompt, SectionHeadings(style.General)...)
	for _, h := range SectionHeadings(style.General) {
		_, ok := sections.Get(h)
		assert.True(t, ok, h)
	}
}

func TestBuildScreenshotProfileAndMode(t *testing.T) {
	unset := BuildScreenshot(Input{}, 1)
	assert.Contains(t, unset, "User profile: Not set")
	assert.NotContains(t, unset, "Dating Mode")
	assert.Contains(t, unset, "this chat screenshot")

	in := Input{
		Mode:    style.Relationship,
		Profile: style.Profile{Gender: style.Male, AgeGroup: "20s", OpponentGender: style.Female},
	}
	got := BuildScreenshot(in, 2)
	assert.Contains(t, got, "these 2 chat screenshots")
	assert.Contains(t, got, "User profile: Male, 20s")
	assert.Contains(t, got, "Dating Mode: User is male, and other person is female.")
	assert.Contains(t, got, "Use natural expressions that men use for women.")
	assert.Contains(t, got, "Interest Expression Style")
	assert.NotContains(t, got, "Friendly Style")
}

func TestNoPlaceholdersForUnsetFields(t *testing.T) {
	in := Input{LatestOther: "hi"}
	for _, p := range []string{
		BuildScreenshot(in, 1),
		BuildReply(in, style.Table(style.General)[0]),
		BuildIntent(in, ""),
		BuildSpeechStyle([]string{"yo"}),
	} {
		assert.NotContains(t, p, "undefined")
		assert.NotContains(t, p, "<nil>")
		assert.NotContains(t, p, `""`)
		assert.NotContains(t, p, "\n\n\n")
	}
}

func TestGuidance(t *testing.T) {
	assert.Equal(t, []string{"Keep the tone natural and appropriate."}, Guidance(Input{}))

	g := Guidance(Input{
		Mode:        style.Relationship,
		SpeechStyle: "short and casual",
		Intent:      "wants to meet",
		Profile:     style.Profile{Gender: style.Female, AgeGroup: "30s", OpponentGender: style.Male},
	})
	require.Len(t, g, 5)
	assert.Contains(t, g[0], `"short and casual"`)
	assert.Contains(t, g[1], `"wants to meet"`)
	assert.Equal(t, "Keep the tone feminine and stable and sophisticated for thirties.", g[2])
	assert.Equal(t, "The opponent is male.", g[3])
	assert.Equal(t, "Use natural expressions that women use for men.", g[4])
}

func TestBuildReply(t *testing.T) {
	in := Input{
		LatestOther: "Are you free Saturday?",
		SpeechStyle: "casual",
		Intent:      "Intent: meeting proposal",
		Recent:      []string{"Other: hey", "Me: hi", "Other: Are you free Saturday?"},
	}
	s := style.Table(style.General)[2]
	got := BuildReply(in, s)

	assert.Contains(t, got, `"Are you free Saturday?"`)
	assert.Contains(t, got, "Recent conversation context:\nOther: hey\nMe: hi")
	assert.Contains(t, got, s.Instruction)
	assert.Contains(t, got, "**CRITICAL**")
	assert.Equal(t, 1, strings.Count(got, `"casual"`))
}

func TestBuildIntentModes(t *testing.T) {
	general := BuildIntent(Input{LatestOther: "hello"}, "")
	assert.Contains(t, general, "**Main Intent**")
	assert.NotContains(t, general, "romantic context")

	rel := BuildIntent(Input{
		Mode:        style.Relationship,
		LatestOther: "miss you",
		Profile:     style.Profile{OpponentGender: style.Female},
		Recent:      []string{"Other: miss you"},
	}, "earlier chat")
	assert.Contains(t, rel, "**Romantic Intent**")
	assert.Contains(t, rel, "Opponent's gender: female")
	assert.Contains(t, rel, "Recent conversation flow (chronological):\nOther: miss you")
	assert.Contains(t, rel, "Overall conversation context:\nearlier chat")
}

func TestBuildSpeechStyle(t *testing.T) {
	got := BuildSpeechStyle([]string{"lol ok", "see u"})
	assert.Contains(t, got, "User messages:\nlol ok\nsee u")
	assert.Contains(t, got, "in one sentence")
}
