package llm

import (
	"context"
	"net/http"
)

// OpenAIProvider speaks the chat completions API. Groq, OpenRouter and custom
// endpoints are the same client with a different base URL.
type OpenAIProvider struct {
	name       string
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return newOpenAICompatible("openai", "https://api.openai.com/v1", apiKey, model)
}

func NewGroqProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "llama-3.1-70b-versatile"
	}
	return newOpenAICompatible("groq", "https://api.groq.com/openai/v1", apiKey, model)
}

func NewOpenRouterProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "google/gemini-flash-1.5"
	}
	return newOpenAICompatible("openrouter", "https://openrouter.ai/api/v1", apiKey, model)
}

func NewCustomProvider(baseURL, apiKey, model string) *OpenAIProvider {
	return newOpenAICompatible("custom", baseURL, apiKey, model)
}

func newOpenAICompatible(name, baseURL, apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		name:       name,
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (o *OpenAIProvider) Name() string {
	return o.name
}

func (o *OpenAIProvider) header() http.Header {
	h := http.Header{}
	if o.apiKey != "" {
		h.Set("Authorization", "Bearer "+o.apiKey)
	}
	return h
}

func (o *OpenAIProvider) Ping(ctx context.Context) error {
	return doJSON(ctx, o.httpClient, o.Name(), http.MethodGet, o.baseURL+"/models", o.header(), nil, nil)
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

// openAIMessage content is a string, or a part list when images ride along
type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func toOpenAIMessages(req *CompletionRequest) []openAIMessage {
	target := req.imageTarget()
	result := make([]openAIMessage, 0, len(req.Messages)+1)
	for i, m := range req.Messages {
		if i != target {
			result = append(result, openAIMessage{Role: m.Role, Content: m.Content})
			continue
		}
		parts := []openAIPart{{Type: "text", Text: m.Content}}
		parts = append(parts, openAIImageParts(req.Images)...)
		result = append(result, openAIMessage{Role: m.Role, Content: parts})
	}
	if target < 0 && len(req.Images) > 0 {
		result = append(result, openAIMessage{Role: "user", Content: openAIImageParts(req.Images)})
	}
	return result
}

func openAIImageParts(images []Image) []openAIPart {
	parts := make([]openAIPart, len(images))
	for i, img := range images {
		parts[i] = openAIPart{Type: "image_url", ImageURL: &openAIImageURL{URL: img.DataURL()}}
	}
	return parts
}

func (o *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := modelOr(req, o.model)

	apiReq := openAIRequest{
		Model:       model,
		Messages:    toOpenAIMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var apiResp openAIResponse
	if err := doJSON(ctx, o.httpClient, o.Name(), http.MethodPost, o.baseURL+"/chat/completions", o.header(), apiReq, &apiResp); err != nil {
		return nil, err
	}

	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == nil {
		return nil, malformedError(o.Name(), "no message content in response", nil)
	}

	return &CompletionResponse{
		Content:      *apiResp.Choices[0].Message.Content,
		Model:        model,
		FinishReason: apiResp.Choices[0].FinishReason,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}, nil
}
