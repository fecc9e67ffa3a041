// Package prompts builds every instruction text sent to the model.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/sant0-9/daptalk/internal/parser"
	"github.com/sant0-9/daptalk/internal/style"
)

//go:embed screenshot.md
var ScreenshotRules string

//go:embed reply.md
var replyRules string

//go:embed speech.md
var speechAspects string

//go:embed intent_general.md
var intentGeneral string

//go:embed intent_relationship.md
var intentRelationship string

// Input is the context shared by the prompts of one generation cycle
type Input struct {
	Profile     style.Profile
	Mode        style.Mode
	SpeechStyle string
	Intent      string
	LatestOther string
	Recent      []string
}

// join drops empty blocks so unset context never leaves gaps or placeholders
func join(sep string, blocks ...string) string {
	kept := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, sep)
}

func profileLine(p style.Profile) string {
	if s := p.Summary(); s != "" {
		return "User profile: " + s
	}
	return "User profile: Not set"
}

func modeLine(in Input) string {
	if in.Mode != style.Relationship || in.Profile.Gender == "" || in.Profile.OpponentGender == "" {
		return ""
	}
	return fmt.Sprintf("Dating Mode: User is %s, and other person is %s.", in.Profile.Gender, in.Profile.OpponentGender)
}

// Guidance is the profile and analysis context prepended to each style
// instruction. Only set fields contribute.
func Guidance(in Input) []string {
	var g []string
	if in.SpeechStyle != "" {
		g = append(g, fmt.Sprintf("User's existing speech characteristics: %q. Reflect these characteristics.", in.SpeechStyle))
	}
	if in.Intent != "" {
		g = append(g, fmt.Sprintf("Opponent's intent analysis: %q. Respond appropriately to this intent.", in.Intent))
	}
	if tone := join(" ", in.Profile.GenderStyle(), in.Profile.AgeStyle()); tone != "" {
		g = append(g, "Keep the tone "+tone+".")
	}
	if in.Mode == style.Relationship {
		g = append(g, in.Profile.OpponentInfo(), in.Profile.PairGuide())
	}
	return g
}

// SectionHeadings lists, in order, the sections a screenshot response must
// contain for the mode
func SectionHeadings(m style.Mode) []string {
	return append([]string{
		parser.HeadingAnalysis,
		parser.HeadingConversation,
		parser.HeadingLatestOther,
		parser.HeadingSpeechStyle,
	}, style.Names(m)...)
}

func heading(h string) string {
	return parser.Delimiter + " " + h + " " + parser.Delimiter
}

func responseFormat(m style.Mode) string {
	var b strings.Builder
	b.WriteString("**Must respond in the following format:**\n\n")

	b.WriteString(heading(parser.HeadingAnalysis) + "\n")
	b.WriteString("Message 1: [Color: gray/blue etc.] + [Position: left/right] + [Name: yes/no] → [Judgment: other person/me]\n")
	b.WriteString("Message 2: [Color: gray/blue etc.] + [Position: left/right] + [Name: yes/no] → [Judgment: other person/me]\n")
	b.WriteString("(Analyze all messages)\n\n")

	b.WriteString(heading(parser.HeadingConversation) + "\n")
	b.WriteString("Other person: [First message sent by other person]\n")
	b.WriteString("Me: [First message sent by me]\n")
	b.WriteString("Other person: [Second message sent by other person]\n")
	b.WriteString("Me: [Second message sent by me]\n")
	b.WriteString("(List all messages chronologically like this)\n\n")

	b.WriteString(heading(parser.HeadingLatestOther) + "\n")
	b.WriteString("[Last message sent by other person]\n\n")

	b.WriteString(heading(parser.HeadingSpeechStyle) + "\n")
	b.WriteString("[Analysis of user's speech style characteristics]\n")

	for _, s := range style.Table(m) {
		fmt.Fprintf(&b, "\n%s\n[%s reply]\n", heading(s.Name), s.Name)
	}
	return b.String()
}

// BuildScreenshot is the single multimodal request of the image flow: it
// reads the conversation, analyzes speech style and writes all four replies
// in one delimited response.
func BuildScreenshot(in Input, images int) string {
	opener := "Please analyze this chat screenshot and perform the following tasks:"
	if images > 1 {
		opener = fmt.Sprintf("Please analyze these %d chat screenshots and perform the following tasks:", images)
	}

	var styles []string
	for _, s := range style.Table(in.Mode) {
		styles = append(styles, fmt.Sprintf("- %s: %s", s.Name, s.Prompt(Guidance(in)...)))
	}

	return join("\n\n",
		opener,
		join("\n", profileLine(in.Profile), modeLine(in)),
		ScreenshotRules,
		"Reply style instructions:\n"+strings.Join(styles, "\n"),
		responseFormat(in.Mode),
	)
}

// BuildReply is the text-flow prompt for one style
func BuildReply(in Input, s style.Style) string {
	var recent string
	if len(in.Recent) > 0 {
		recent = "Recent conversation context:\n" + strings.Join(in.Recent, "\n") +
			"\nConsider this conversation flow when writing the reply."
	}

	var speech, intent string
	if in.SpeechStyle != "" {
		speech = fmt.Sprintf("User's usual speech characteristics: %q\nReflect these characteristics in the reply.", in.SpeechStyle)
	}
	if in.Intent != "" {
		intent = fmt.Sprintf("Opponent's intent analysis: %q\nTake the response they want into account.", in.Intent)
	}

	return join("\n\n",
		fmt.Sprintf("The other person sent this message: %q", in.LatestOther),
		profileLine(in.Profile),
		speech,
		intent,
		recent,
		s.Prompt(Guidance(Input{Profile: in.Profile, Mode: in.Mode})...),
		replyRules,
	)
}

// BuildSpeechStyle asks for a one-sentence summary of how the user writes
func BuildSpeechStyle(selfTexts []string) string {
	return join("\n\n",
		"Please analyze the following messages to identify the user's speech characteristics:",
		"User messages:\n"+strings.Join(selfTexts, "\n"),
		speechAspects,
	)
}

// BuildIntent asks for the opponent's intent behind in.LatestOther, using
// in.Recent as the conversation flow and context as optional background
func BuildIntent(in Input, context string) string {
	var extra []string
	if in.Mode == style.Relationship {
		switch in.Profile.OpponentGender {
		case style.Male, style.Female:
			extra = append(extra, fmt.Sprintf("Opponent's gender: %s\nPlease analyze considering %s psychology and communication style.",
				in.Profile.OpponentGender, in.Profile.OpponentGender))
		}
		extra = append(extra, "This is a conversation in a romantic context. Please focus on analyzing the opponent's emotions, affection level, relationship development intentions, etc.")
	}
	if len(in.Recent) > 0 {
		extra = append(extra, "Recent conversation flow (chronological):\n"+strings.Join(in.Recent, "\n")+
			"\n\nBased on this conversation flow, please identify the opponent's current emotional changes and intentions.")
	}
	if context != "" {
		extra = append(extra, "Overall conversation context:\n"+context)
	}

	perspectives := intentGeneral
	if in.Mode == style.Relationship {
		perspectives = intentRelationship
	}

	return join("\n\n",
		"Please analyze the following message to understand the opponent's intentions and emotional state:",
		fmt.Sprintf("Opponent's recent message: %q", in.LatestOther),
		join("\n\n", extra...),
		perspectives,
	)
}
