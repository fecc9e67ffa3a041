package llm

import (
	"context"
	"net/http"
)

type OllamaProvider struct {
	host       string
	model      string
	httpClient *http.Client
}

func NewOllamaProvider(host, model string) *OllamaProvider {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "llava:7b"
	}
	return &OllamaProvider{
		host:       host,
		model:      model,
		httpClient: newHTTPClient(),
	}
}

func (o *OllamaProvider) Name() string {
	return "ollama"
}

func (o *OllamaProvider) Ping(ctx context.Context) error {
	return doJSON(ctx, o.httpClient, o.Name(), http.MethodGet, o.host+"/api/tags", nil, nil, nil)
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message *struct {
		Content string `json:"content"`
	} `json:"message"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`

	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

func convertMessages(req *CompletionRequest) []ollamaMessage {
	target := req.imageTarget()
	var images []string
	for _, img := range req.Images {
		images = append(images, img.Base64())
	}

	result := make([]ollamaMessage, 0, len(req.Messages)+1)
	for i, m := range req.Messages {
		msg := ollamaMessage{Role: m.Role, Content: m.Content}
		if i == target {
			msg.Images = images
		}
		result = append(result, msg)
	}
	if target < 0 && len(images) > 0 {
		result = append(result, ollamaMessage{Role: "user", Images: images})
	}
	return result
}

func (o *OllamaProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := modelOr(req, o.model)

	ollamaReq := ollamaChatRequest{
		Model:    model,
		Messages: convertMessages(req),
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	var ollamaResp ollamaChatResponse
	if err := doJSON(ctx, o.httpClient, o.Name(), http.MethodPost, o.host+"/api/chat", nil, ollamaReq, &ollamaResp); err != nil {
		return nil, err
	}

	if ollamaResp.Message == nil {
		return nil, malformedError(o.Name(), "no message in response", nil)
	}

	return &CompletionResponse{
		Content:      ollamaResp.Message.Content,
		Model:        ollamaResp.Model,
		FinishReason: ollamaResp.DoneReason,
		Usage: Usage{
			PromptTokens:     ollamaResp.PromptEvalCount,
			CompletionTokens: ollamaResp.EvalCount,
			TotalTokens:      ollamaResp.PromptEvalCount + ollamaResp.EvalCount,
		},
	}, nil
}
