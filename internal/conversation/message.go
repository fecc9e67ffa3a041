package conversation

import "fmt"

// Sender attributes a message to one side of the chat
type Sender int

const (
	Other Sender = iota
	Self
)

func (s Sender) String() string {
	switch s {
	case Self:
		return "self"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Label is the short name used in transcripts
func (s Sender) Label() string {
	if s == Self {
		return "Me"
	}
	return "Other"
}

// Flip returns the opposite sender
func (s Sender) Flip() Sender {
	if s == Self {
		return Other
	}
	return Self
}

// Message is one line of an extracted or user-edited conversation
type Message struct {
	ID       string
	Sender   Sender
	Text     string
	Sequence int64 // ordering key only, not a send time
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.Sender.Label(), m.Text)
}
