// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/sant0-9/daptalk/internal/llm"
)

// ErrExhausted is returned once every scripted reply has been used
var ErrExhausted = errors.New("llmtest: no scripted replies left")

// Reply is one scripted outcome
type Reply struct {
	Content string
	Err     error
}

// Provider replays Replies in order and records every request
type Provider struct {
	mu      sync.Mutex
	Replies []Reply
	Calls   []*llm.CompletionRequest
	PingErr error
}

// New scripts a provider that answers with contents in order
func New(contents ...string) *Provider {
	p := &Provider{}
	for _, c := range contents {
		p.Replies = append(p.Replies, Reply{Content: c})
	}
	return p
}

// Fail appends a failing reply
func (p *Provider) Fail(err error) *Provider {
	p.Replies = append(p.Replies, Reply{Err: err})
	return p
}

func (p *Provider) Name() string {
	return "fake"
}

func (p *Provider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.Replies) == 0 {
		return nil, ErrExhausted
	}

	r := p.Replies[0]
	p.Replies = p.Replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	return &llm.CompletionResponse{Content: r.Content, Model: req.Model, FinishReason: "stop"}, nil
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.PingErr
}

// CallCount is safe to use while requests are in flight
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}

// Prompt returns the last user message of call i
func (p *Provider) Prompt(i int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.Calls[i].Messages
	for j := len(msgs) - 1; j >= 0; j-- {
		if msgs[j].Role == "user" {
			return msgs[j].Content
		}
	}
	return ""
}
