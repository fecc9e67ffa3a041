// Package session holds the analysis results that feed back into the next
// round of prompts.
package session

import "strings"

// Context is owned by one user session and passed explicitly to each
// generation cycle. Not safe for concurrent use; cycles run one at a time.
type Context struct {
	SpeechStyle string
	Intent      string
	LatestOther string
}

// Snapshot returns a copy so a batch of calls sees one consistent view
func (c *Context) Snapshot() Context {
	if c == nil {
		return Context{}
	}
	return *c
}

// Update overwrites fields with the non-empty values given
func (c *Context) Update(next Context) {
	if v := strings.TrimSpace(next.SpeechStyle); v != "" {
		c.SpeechStyle = v
	}
	if v := strings.TrimSpace(next.Intent); v != "" {
		c.Intent = v
	}
	if v := strings.TrimSpace(next.LatestOther); v != "" {
		c.LatestOther = v
	}
}

// ResetForMode drops the intent analysis, which depends on the mode
func (c *Context) ResetForMode() {
	c.Intent = ""
}

// Clear forgets everything
func (c *Context) Clear() {
	*c = Context{}
}
