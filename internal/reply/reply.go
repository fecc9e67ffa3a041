package reply

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sant0-9/daptalk/internal/parser"
	"github.com/sant0-9/daptalk/internal/style"
)

// Suggestion is one candidate reply in a given style
type Suggestion struct {
	ID    string
	Style string
	Text  string
}

// Assemble builds the four suggestions of mode from parsed sections.
// A style whose section is missing or blank gets its fallback text.
func Assemble(mode style.Mode, sections parser.Sections) []Suggestion {
	table := style.Table(mode)
	texts := make([]string, len(table))
	for i, s := range table {
		texts[i] = sections.Body(s.Name)
	}
	return build(table, texts)
}

// FromTexts pairs generated texts with the styles of mode by position.
// Missing or blank entries fall back the same way Assemble does.
func FromTexts(mode style.Mode, texts []string) []Suggestion {
	return build(style.Table(mode), texts)
}

// Fallbacks is the full set of fallback suggestions for mode
func Fallbacks(mode style.Mode) []Suggestion {
	return build(style.Table(mode), nil)
}

// Headings lists the section headings Assemble looks up
func Headings(mode style.Mode) []string {
	return style.Names(mode)
}

func build(table []style.Style, texts []string) []Suggestion {
	out := make([]Suggestion, len(table))
	for i, s := range table {
		text := ""
		if i < len(texts) {
			text = strings.TrimSpace(texts[i])
		}
		if text == "" {
			text = s.Fallback
		}
		out[i] = Suggestion{
			ID:    uuid.NewString(),
			Style: s.Name,
			Text:  text,
		}
	}
	return out
}

// Fallback reports whether sg carries its style's fallback text
func Fallback(mode style.Mode, sg Suggestion) bool {
	for _, s := range style.Table(mode) {
		if s.Name == sg.Style {
			return s.Fallback == sg.Text
		}
	}
	return false
}
