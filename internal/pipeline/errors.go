package pipeline

import (
	"errors"

	"github.com/sant0-9/daptalk/internal/usage"
)

// ErrGenerationFailed wraps every model gateway failure of a cycle
var ErrGenerationFailed = errors.New("reply generation failed")

// ErrQuotaExceeded is the daily free quota gate. It is not a failure: the
// caller should offer premium instead of an error notice.
var ErrQuotaExceeded = usage.ErrQuotaExceeded

// ValidationError is returned before any model call when the request
// cannot be served as given
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	msgNoImages        = "select a screenshot first"
	msgNoConversation  = "there is no conversation to reply to"
	msgNoOtherMessage  = "the conversation has no message from the other person"
	msgNoText          = "enter the conversation text first"
	msgProfileRequired = "relationship mode needs your gender and the other person's gender"
)
