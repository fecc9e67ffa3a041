package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: newHTTPClient(),
	}
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

func (g *GeminiProvider) header() http.Header {
	h := http.Header{}
	h.Set("x-goog-api-key", g.apiKey)
	return h
}

func (g *GeminiProvider) Ping(ctx context.Context) error {
	return doJSON(ctx, g.httpClient, g.Name(), http.MethodGet, g.baseURL+"/models", g.header(), nil, nil)
}

type geminiRequest struct {
	SystemInstruction *geminiContent        `json:"system_instruction,omitempty"`
	Contents          []geminiContent       `json:"contents"`
	GenerationConfig  *geminiGenerationConf `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConf struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (g *GeminiProvider) buildRequest(req *CompletionRequest) geminiRequest {
	system, msgs := splitSystem(req.Messages)

	var apiReq geminiRequest
	if system != "" {
		apiReq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		apiReq.GenerationConfig = &geminiGenerationConf{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	target := (&CompletionRequest{Messages: msgs, Images: req.Images}).imageTarget()
	for i, m := range msgs {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		content := geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}}
		if i == target {
			content.Parts = append(content.Parts, geminiImageParts(req.Images)...)
		}
		apiReq.Contents = append(apiReq.Contents, content)
	}
	if target < 0 && len(req.Images) > 0 {
		apiReq.Contents = append(apiReq.Contents, geminiContent{Role: "user", Parts: geminiImageParts(req.Images)})
	}

	return apiReq
}

func geminiImageParts(images []Image) []geminiPart {
	parts := make([]geminiPart, len(images))
	for i, img := range images {
		parts[i] = geminiPart{InlineData: &geminiInlineData{MimeType: img.MIMEType, Data: img.Base64()}}
	}
	return parts
}

func (g *GeminiProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := modelOr(req, g.model)
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(model))

	var apiResp geminiResponse
	if err := doJSON(ctx, g.httpClient, g.Name(), http.MethodPost, endpoint, g.header(), g.buildRequest(req), &apiResp); err != nil {
		return nil, err
	}

	if len(apiResp.Candidates) == 0 {
		return nil, malformedError(g.Name(), "no candidates in response", nil)
	}

	var (
		text  strings.Builder
		found bool
	)
	cand := apiResp.Candidates[0]
	for _, p := range cand.Content.Parts {
		if p.Text != nil {
			text.WriteString(*p.Text)
			found = true
		}
	}
	if !found {
		return nil, malformedError(g.Name(), "candidate has no text part", nil)
	}

	return &CompletionResponse{
		Content:      text.String(),
		Model:        model,
		FinishReason: cand.FinishReason,
		Usage: Usage{
			PromptTokens:     apiResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: apiResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      apiResp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
