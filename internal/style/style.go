package style

import "strings"

// Mode selects which style table and prompt phrasing apply
type Mode int

const (
	General Mode = iota
	Relationship
)

func (m Mode) String() string {
	switch m {
	case General:
		return "general"
	case Relationship:
		return "relationship"
	default:
		return "unknown"
	}
}

// Toggle flips between general and relationship mode
func (m Mode) Toggle() Mode {
	if m == Relationship {
		return General
	}
	return Relationship
}

// Style is one of the four reply tones of a mode.
// Name doubles as the section heading the model is asked to emit.
type Style struct {
	Name        string
	Instruction string
	Fallback    string
}

// Count is the number of reply styles per mode
const Count = 4

const criticalNote = "**CRITICAL**: You MUST write ONLY the actual message text. Do NOT write any analysis or explanations."

var generalStyles = [Count]Style{
	{
		Name:        "Friendly Style",
		Instruction: "Write a casual, friendly reply using informal language like talking to a close friend.",
		Fallback:    "Image analyzed but failed to generate response.",
	},
	{
		Name:        "Polite Style",
		Instruction: "Write a formal, respectful reply using polite language and honorifics.",
		Fallback:    "Sorry. Please try again.",
	},
	{
		Name:        "Humorous Style",
		Instruction: "Write a funny, witty reply that will make the other person laugh or smile.",
		Fallback:    "Hmm... this image is a bit difficult! 😅",
	},
	{
		Name:        "Polite Rejection",
		Instruction: "Write a polite but clear rejection. Be gentle but firm in your refusal.",
		Fallback:    "Failed to generate polite decline response.",
	},
}

var relationshipStyles = [Count]Style{
	{
		Name:        "Interest Expression Style",
		Instruction: "Write a reply that subtly shows romantic interest and curiosity. Use warm, engaging language.",
		Fallback:    "Image analyzed but failed to generate romance response.",
	},
	{
		Name:        "Attractive Style",
		Instruction: "Write a reply that showcases your personality and charm. Be confident and engaging.",
		Fallback:    "Sorry. Please try again. 💕",
	},
	{
		Name:        "Intimacy Building Style",
		Instruction: "Write a reply that creates emotional connection. Share something personal or find common ground.",
		Fallback:    "Hmm... this image is a bit difficult! 😊",
	},
	{
		Name:        "Careful Rejection Style",
		Instruction: "Politely decline their advance while preserving dignity and friendship possibility.",
		Fallback:    "Failed to generate careful decline response.",
	},
}

// Table returns the four styles of a mode in their fixed order
func Table(m Mode) []Style {
	t := generalStyles
	if m == Relationship {
		t = relationshipStyles
	}
	out := make([]Style, Count)
	copy(out, t[:])
	return out
}

// Names returns the style headings of a mode in table order
func Names(m Mode) []string {
	t := Table(m)
	names := make([]string, len(t))
	for i, s := range t {
		names[i] = s.Name
	}
	return names
}

// Prompt renders the full per-style instruction with the profile guidance
// prepended. Empty guidance clauses are dropped rather than left blank.
func (s Style) Prompt(guidance ...string) string {
	parts := make([]string, 0, len(guidance)+2)
	for _, g := range guidance {
		if g = strings.TrimSpace(g); g != "" {
			parts = append(parts, g)
		}
	}
	parts = append(parts, s.Instruction, criticalNote)
	return strings.Join(parts, " ")
}
