package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newAnthropicTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *AnthropicProvider) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewAnthropicProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return server, provider
}

func TestAnthropicProvider_Generate_Success(t *testing.T) {
	_, provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.System != "You are a fact checker." {
			t.Errorf("Expected system instruction, got %q", req.System)
		}
		if req.Model != DefaultAnthropicModel {
			t.Errorf("Expected default model, got %s", req.Model)
		}

		_, _ = w.Write([]byte(`{
			"id": "msg_123",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "{\"status\":\"Fake\"}"}],
			"model": "claude-3-5-haiku-20241022",
			"usage": {"input_tokens": 50, "output_tokens": 50}
		}`))
	})

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		System: "You are a fact checker.",
		Prompt: "Analyze this",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != `{"status":"Fake"}` {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
}

func TestAnthropicProvider_Generate_ImageBlock(t *testing.T) {
	image := []byte("fake-jpeg-bytes")

	_, provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		content := req.Messages[0].Content
		if len(content) != 2 {
			t.Errorf("Expected image and text blocks, got %d", len(content))
			return
		}
		if content[0].Type != "image" || content[0].Source == nil {
			t.Errorf("Expected leading image block, got %+v", content[0])
			return
		}
		if content[0].Source.MediaType != "image/jpeg" {
			t.Errorf("Expected media type image/jpeg, got %s", content[0].Source.MediaType)
		}
		if content[0].Source.Data != base64.StdEncoding.EncodeToString(image) {
			t.Error("Expected base64 image data")
		}

		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "{}"}]}`))
	})

	_, err := provider.Generate(context.Background(), GenerateRequest{
		Prompt:     "Inspect",
		Attachment: &Attachment{Data: image, MIMEType: "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestAnthropicProvider_Generate_APIError(t *testing.T) {
	_, provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "Internal Server Error"}}`))
	})

	_, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Internal Server Error") {
		t.Errorf("Expected error message to contain 'Internal Server Error', got %v", err)
	}
}

func TestAnthropicProvider_Generate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limit", http.StatusTooManyRequests, `{"type": "error", "error": {"type": "rate_limit_error", "message": "Rate limit exceeded"}}`},
		{"malformed json", http.StatusOK, `{malformed json`},
		{"no text blocks", http.StatusOK, `{"content": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "x"}); err == nil {
				t.Fatal("Expected error, got nil")
			}
		})
	}
}

func TestAnthropicProvider_IsAvailable(t *testing.T) {
	server, provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "Hi"}]}`))
	})

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
