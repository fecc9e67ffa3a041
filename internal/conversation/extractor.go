package conversation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender markers the model is told to put in front of each conversation line
const (
	OtherMarker = "Other person:"
	SelfMarker  = "Me:"
)

// looseOtherWord is what the secondary pass accepts for the other party,
// tolerating a missing colon
const looseOtherWord = "Other person"

// PlaceholderText is shown when nothing could be extracted
const PlaceholderText = "Failed to extract conversation from screenshot. Please edit manually."

// Extractor turns the conversation section of a model response into messages
type Extractor struct {
	now   func() time.Time
	newID func() string
}

// NewExtractor creates an extractor using the wall clock and random UUIDs
func NewExtractor() *Extractor {
	return &Extractor{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Extract parses body line by line, keeping lines that start with a sender
// marker. When that finds nothing it retries over every line of raw with a
// looser test, and as a last resort returns a single placeholder message
// from the other party. The result is never empty.
func (e *Extractor) Extract(body, raw string) []Message {
	base := e.now().UnixMilli()
	run := e.newID()

	if msgs := e.strict(body, base, run); len(msgs) > 0 {
		return msgs
	}
	if msgs := e.loose(raw, base, run); len(msgs) > 0 {
		return msgs
	}

	return []Message{{
		ID:       run + "-placeholder",
		Sender:   Other,
		Text:     PlaceholderText,
		Sequence: base,
	}}
}

// ExtractPlain handles text pasted by the user. Marker lines are used when
// present; otherwise every non-blank line is taken as the other party's.
func (e *Extractor) ExtractPlain(text string) []Message {
	base := e.now().UnixMilli()
	run := e.newID()

	if msgs := e.strict(text, base, run); len(msgs) > 0 {
		return msgs
	}

	var msgs []Message
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msgs = append(msgs, e.message(run, i, base, Other, line))
	}
	return msgs
}

func (e *Extractor) strict(body string, base int64, run string) []Message {
	var msgs []Message
	for i, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var sender Sender
		var text string
		switch {
		case strings.HasPrefix(line, OtherMarker):
			sender, text = Other, strings.TrimPrefix(line, OtherMarker)
		case strings.HasPrefix(line, SelfMarker):
			sender, text = Self, strings.TrimPrefix(line, SelfMarker)
		default:
			continue
		}

		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		msgs = append(msgs, e.message(run, i, base, sender, text))
	}
	return msgs
}

func (e *Extractor) loose(raw string, base int64, run string) []Message {
	var msgs []Message
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "===") {
			continue
		}

		var sender Sender
		var text string
		if idx := strings.Index(line, SelfMarker); idx >= 0 {
			sender, text = Self, line[idx+len(SelfMarker):]
		} else if idx := strings.Index(line, looseOtherWord); idx >= 0 {
			sender, text = Other, line[idx+len(looseOtherWord):]
			text = strings.TrimPrefix(strings.TrimSpace(text), ":")
		} else {
			continue
		}

		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		msgs = append(msgs, e.message(run, i, base, sender, text))
	}
	return msgs
}

func (e *Extractor) message(run string, line int, base int64, sender Sender, text string) Message {
	return Message{
		ID:       run + "-" + e.newID(),
		Sender:   sender,
		Text:     text,
		Sequence: base + int64(line),
	}
}
