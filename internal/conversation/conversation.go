package conversation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction for Move
type Direction int

const (
	Up Direction = iota
	Down
)

// Conversation is the ordered, user-editable message list
type Conversation struct {
	messages []Message
	now      func() time.Time
}

// New wraps msgs, keeping their order
func New(msgs []Message) *Conversation {
	c := &Conversation{now: time.Now}
	c.Replace(msgs)
	return c
}

// Samples is the starter pair shown when the user opens an empty editor
func Samples() *Conversation {
	c := New(nil)
	c.Add(Other, "Hello! Please enter the other person's message here.")
	c.Add(Self, "Please enter my message here.")
	return c
}

// Replace swaps the whole list, as a new extraction does
func (c *Conversation) Replace(msgs []Message) {
	c.messages = append([]Message(nil), msgs...)
}

// Messages returns a copy of the list
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

func (c *Conversation) valid(i int) bool {
	return i >= 0 && i < len(c.messages)
}

// Add appends a message and returns its index
func (c *Conversation) Add(sender Sender, text string) int {
	seq := c.now().UnixMilli()
	if n := len(c.messages); n > 0 && c.messages[n-1].Sequence >= seq {
		seq = c.messages[n-1].Sequence + 1
	}
	c.messages = append(c.messages, Message{
		ID:       uuid.NewString(),
		Sender:   sender,
		Text:     text,
		Sequence: seq,
	})
	return len(c.messages) - 1
}

// Update replaces the text at i
func (c *Conversation) Update(i int, text string) bool {
	if !c.valid(i) {
		return false
	}
	c.messages[i].Text = text
	return true
}

// Delete removes the message at i
func (c *Conversation) Delete(i int) bool {
	if !c.valid(i) {
		return false
	}
	c.messages = append(c.messages[:i], c.messages[i+1:]...)
	return true
}

// Move swaps the message at i with its neighbour. Moving the first message
// up or the last one down does nothing.
func (c *Conversation) Move(i int, dir Direction) bool {
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if !c.valid(i) || !c.valid(j) {
		return false
	}
	c.messages[i], c.messages[j] = c.messages[j], c.messages[i]
	return true
}

// ToggleSender flips the attribution of the message at i
func (c *Conversation) ToggleSender(i int) bool {
	if !c.valid(i) {
		return false
	}
	c.messages[i].Sender = c.messages[i].Sender.Flip()
	return true
}

// LatestOther is the text of the last message from the other party
func (c *Conversation) LatestOther() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Sender == Other {
			return c.messages[i].Text
		}
	}
	return ""
}

// SelfTexts collects the user's own messages, used for speech-style analysis
func (c *Conversation) SelfTexts() []string {
	var out []string
	for _, m := range c.messages {
		if m.Sender == Self {
			out = append(out, m.Text)
		}
	}
	return out
}

// Recent renders the last n messages as "Me: ..." / "Other: ..." lines
func (c *Conversation) Recent(n int) []string {
	start := len(c.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(c.messages)-start)
	for _, m := range c.messages[start:] {
		out = append(out, m.String())
	}
	return out
}

// Transcript renders the whole conversation
func (c *Conversation) Transcript() string {
	return strings.Join(c.Recent(len(c.messages)), "\n")
}
