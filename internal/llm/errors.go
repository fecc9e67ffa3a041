package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorCode string

const (
	CodeAuthentication    ErrorCode = "authentication"
	CodeRateLimit         ErrorCode = "rate_limit"
	CodeInvalidRequest    ErrorCode = "invalid_request"
	CodeServer            ErrorCode = "server"
	CodeTransport         ErrorCode = "transport"
	CodeMalformedResponse ErrorCode = "malformed_response"
)

// ProviderError is returned by every provider for failed calls
type ProviderError struct {
	Provider string
	Code     ErrorCode
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Provider, e.Code)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is a ProviderError with the given code
func IsCode(err error, code ErrorCode) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == code
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeAuthentication
	case status == http.StatusTooManyRequests:
		return CodeRateLimit
	case status >= 500:
		return CodeServer
	default:
		return CodeInvalidRequest
	}
}

func statusError(provider string, status int, body []byte) *ProviderError {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512] + "..."
	}
	return &ProviderError{
		Provider: provider,
		Code:     codeForStatus(status),
		Status:   status,
		Message:  msg,
	}
}

func transportError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Code: CodeTransport, Err: err}
}

func malformedError(provider, msg string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Code: CodeMalformedResponse, Message: msg, Err: err}
}
