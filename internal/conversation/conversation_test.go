package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Conversation {
	return New([]Message{
		{ID: "1", Sender: Other, Text: "hi", Sequence: 1},
		{ID: "2", Sender: Self, Text: "hello", Sequence: 2},
		{ID: "3", Sender: Other, Text: "free tonight?", Sequence: 3},
	})
}

func TestLatestOther(t *testing.T) {
	c := sample()
	assert.Equal(t, "free tonight?", c.LatestOther())

	c.ToggleSender(2)
	assert.Equal(t, "hi", c.LatestOther())

	assert.Equal(t, "", New(nil).LatestOther())
}

func TestMove(t *testing.T) {
	c := sample()

	assert.False(t, c.Move(0, Up))
	assert.False(t, c.Move(2, Down))
	assert.False(t, c.Move(7, Up))

	require.True(t, c.Move(0, Down))
	msgs := c.Messages()
	assert.Equal(t, "2", msgs[0].ID)
	assert.Equal(t, "1", msgs[1].ID)
}

func TestEditOps(t *testing.T) {
	c := sample()

	assert.True(t, c.Update(1, "hey"))
	assert.False(t, c.Update(-1, "x"))
	assert.Equal(t, []string{"hey"}, c.SelfTexts())

	assert.True(t, c.Delete(0))
	assert.False(t, c.Delete(5))
	assert.Equal(t, 2, c.Len())

	i := c.Add(Self, "see you")
	assert.Equal(t, 2, i)
	msgs := c.Messages()
	assert.Greater(t, msgs[2].Sequence, msgs[1].Sequence)
}

func TestRecent(t *testing.T) {
	c := sample()

	assert.Equal(t, []string{"Me: hello", "Other: free tonight?"}, c.Recent(2))
	assert.Len(t, c.Recent(10), 3)
	assert.Equal(t, "Other: hi\nMe: hello\nOther: free tonight?", c.Transcript())
}

func TestMessagesIsCopy(t *testing.T) {
	c := sample()
	msgs := c.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "hi", c.Messages()[0].Text)
}

func TestSamples(t *testing.T) {
	c := Samples()
	require.Equal(t, 2, c.Len())
	assert.Equal(t, Other, c.Messages()[0].Sender)
	assert.Equal(t, Self, c.Messages()[1].Sender)
}
