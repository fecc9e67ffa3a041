package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sant0-9/daptalk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImage = Image{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestGeminiComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-goog-api-key"))

		body := decodeBody(t, r)
		assert.Equal(t, "be brief", body["system_instruction"].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"])

		contents := body["contents"].([]any)
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)
		assert.Equal(t, "read this", parts[0].(map[string]any)["text"])
		inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
		assert.Equal(t, "image/png", inline["mime_type"])
		assert.Equal(t, testImage.Base64(), inline["data"])

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"world"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":2,"totalTokenCount":5}}`))
	}))
	defer srv.Close()

	g := NewGeminiProvider("key-123", "")
	g.baseURL = srv.URL

	resp, err := g.Complete(context.Background(), NewRequest("", "be brief", "read this").WithImages(testImage))
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
}

func TestGeminiMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"no text part", `{"candidates":[{"content":{"parts":[{}]}}]}`},
		{"not json", `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGeminiProvider("k", "")
			g.baseURL = srv.URL

			_, err := g.Complete(context.Background(), NewRequest("", "", "hi"))
			require.Error(t, err)
			assert.True(t, IsCode(err, CodeMalformedResponse), err.Error())
		})
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		code   ErrorCode
	}{
		{http.StatusUnauthorized, CodeAuthentication},
		{http.StatusForbidden, CodeAuthentication},
		{http.StatusTooManyRequests, CodeRateLimit},
		{http.StatusBadRequest, CodeInvalidRequest},
		{http.StatusBadGateway, CodeServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			o := NewCustomProvider(srv.URL, "", "m")
			_, err := o.Complete(context.Background(), NewRequest("", "", "hi"))

			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, tt.status, pe.Status)
			assert.Equal(t, "custom", pe.Provider)
			assert.Contains(t, pe.Error(), "nope")
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOllamaProvider(url, "").Complete(context.Background(), NewRequest("", "", "hi"))
	assert.True(t, IsCode(err, CodeTransport))
}

func TestOpenAICompatibleImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))

		body := decodeBody(t, r)
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "sys", msgs[0].(map[string]any)["content"])

		parts := msgs[1].(map[string]any)["content"].([]any)
		require.Len(t, parts, 3)
		assert.Equal(t, "text", parts[0].(map[string]any)["type"])
		img := parts[1].(map[string]any)["image_url"].(map[string]any)
		assert.Equal(t, testImage.DataURL(), img["url"])

		w.Write([]byte(`{"choices":[{"message":{"content":"ok"},"finish_reason":"stop"}],"usage":{"total_tokens":9}}`))
	}))
	defer srv.Close()

	o := NewOpenAIProvider("sk", "")
	o.baseURL = srv.URL

	resp, err := o.Complete(context.Background(), NewRequest("", "sys", "look").WithImages(testImage, testImage))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 9, resp.Usage.TotalTokens)
}

func TestOpenAINullContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":null}}]}`))
	}))
	defer srv.Close()

	o := NewGroqProvider("k", "")
	o.baseURL = srv.URL

	_, err := o.Complete(context.Background(), NewRequest("", "", "hi"))
	assert.True(t, IsCode(err, CodeMalformedResponse))
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "ak", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		body := decodeBody(t, r)
		assert.Equal(t, "sys", body["system"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 1)
		blocks := msgs[0].(map[string]any)["content"].([]any)
		require.Len(t, blocks, 2)
		assert.Equal(t, "image", blocks[0].(map[string]any)["type"])
		assert.Equal(t, "text", blocks[1].(map[string]any)["type"])

		w.Write([]byte(`{"content":[{"type":"text","text":"claude says hi"}],"stop_reason":"end_turn","usage":{"input_tokens":4,"output_tokens":3}}`))
	}))
	defer srv.Close()

	a := NewAnthropicProvider("ak", "")
	a.baseURL = srv.URL

	resp, err := a.Complete(context.Background(), NewRequest("", "sys", "look").WithImages(testImage))
	require.NoError(t, err)
	assert.Equal(t, "claude says hi", resp.Content)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
}

func TestAnthropicPingAcceptsBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	a := NewAnthropicProvider("ak", "")
	a.baseURL = srv.URL
	assert.NoError(t, a.Ping(context.Background()))
}

func TestOllamaImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, false, body["stream"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 1)
		images := msgs[0].(map[string]any)["images"].([]any)
		assert.Equal(t, []any{testImage.Base64()}, images)

		w.Write([]byte(`{"model":"llava:7b","message":{"role":"assistant","content":"local"},"done":true,"done_reason":"stop"}`))
	}))
	defer srv.Close()

	resp, err := NewOllamaProvider(srv.URL, "").Complete(context.Background(), NewRequest("", "", "look").WithImages(testImage))
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestImagesWithoutUserMessage(t *testing.T) {
	req := &CompletionRequest{
		Messages: []Message{{Role: "system", Content: "sys"}},
		Images:   []Image{testImage},
	}
	assert.Equal(t, -1, req.imageTarget())

	msgs := toOpenAIMessages(req)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[1].Role)
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		cfg     config.Config
		name    string
		wantErr bool
	}{
		{config.Config{Provider: "gemini", APIKey: "k"}, "gemini", false},
		{config.Config{Provider: "gemini"}, "", true},
		{config.Config{Provider: "openai", APIKey: "k"}, "openai", false},
		{config.Config{Provider: "groq", APIKey: "k"}, "groq", false},
		{config.Config{Provider: "openrouter", APIKey: "k"}, "openrouter", false},
		{config.Config{Provider: "anthropic", APIKey: "k"}, "anthropic", false},
		{config.Config{Provider: "ollama"}, "ollama", false},
		{config.Config{Provider: "custom"}, "", true},
		{config.Config{Provider: "custom", BaseURL: "http://x"}, "custom", false},
		{config.Config{Provider: "mystery"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.Provider, func(t *testing.T) {
			cfg := tt.cfg
			p, err := NewProvider(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name())
		})
	}
}
