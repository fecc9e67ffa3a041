package llm

import (
	"context"
	"errors"
	"net/http"
)

type AnthropicProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	return &AnthropicProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://api.anthropic.com/v1",
		httpClient: newHTTPClient(),
	}
}

func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

func (a *AnthropicProvider) header() http.Header {
	h := http.Header{}
	h.Set("x-api-key", a.apiKey)
	h.Set("anthropic-version", "2023-06-01")
	return h
}

func (a *AnthropicProvider) Ping(ctx context.Context) error {
	// No ping endpoint; a 1-token request is enough. A 400 still proves the
	// key was accepted.
	payload := anthropicRequest{
		Model:     a.model,
		MaxTokens: 1,
		Messages:  []anthropicMessage{{Role: "user", Content: "hi"}},
	}
	err := doJSON(ctx, a.httpClient, a.Name(), http.MethodPost, a.baseURL+"/messages", a.header(), payload, nil)
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Status == http.StatusBadRequest {
		return nil
	}
	return err
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

// anthropicMessage content is a string, or content blocks with images
type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type anthropicBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func anthropicImageBlocks(images []Image) []anthropicBlock {
	blocks := make([]anthropicBlock, len(images))
	for i, img := range images {
		blocks[i] = anthropicBlock{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: img.MIMEType,
				Data:      img.Base64(),
			},
		}
	}
	return blocks
}

func (a *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := modelOr(req, a.model)

	system, msgs := splitSystem(req.Messages)
	target := (&CompletionRequest{Messages: msgs, Images: req.Images}).imageTarget()

	messages := make([]anthropicMessage, 0, len(msgs)+1)
	for i, m := range msgs {
		if i != target {
			messages = append(messages, anthropicMessage{Role: m.Role, Content: m.Content})
			continue
		}
		// images first, then the instruction text
		blocks := append(anthropicImageBlocks(req.Images), anthropicBlock{Type: "text", Text: m.Content})
		messages = append(messages, anthropicMessage{Role: m.Role, Content: blocks})
	}
	if target < 0 && len(req.Images) > 0 {
		messages = append(messages, anthropicMessage{Role: "user", Content: anthropicImageBlocks(req.Images)})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	apiReq := anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	var apiResp anthropicResponse
	if err := doJSON(ctx, a.httpClient, a.Name(), http.MethodPost, a.baseURL+"/messages", a.header(), apiReq, &apiResp); err != nil {
		return nil, err
	}

	var text *string
	for _, c := range apiResp.Content {
		if c.Text != nil {
			text = c.Text
			break
		}
	}
	if text == nil {
		return nil, malformedError(a.Name(), "no text block in response", nil)
	}

	return &CompletionResponse{
		Content:      *text,
		Model:        model,
		FinishReason: apiResp.StopReason,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.InputTokens,
			CompletionTokens: apiResp.Usage.OutputTokens,
			TotalTokens:      apiResp.Usage.InputTokens + apiResp.Usage.OutputTokens,
		},
	}, nil
}
