package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-001"}); err == nil {
		t.Fatal("expected error for empty API key")
	}

	// Vendor-prefixed ids pass through even when they collide with an alias.
	for _, model := range []string{"google/gemini-2.0-flash-001", "anthropic/claude-3-haiku", "gpt-4o"} {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: model})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", model, err)
		}
		if p.ModelID() != model {
			t.Errorf("model = %q, want %q", p.ModelID(), model)
		}
	}
}

func TestOpenRouterProvider_FencedBatchAndAttribution(t *testing.T) {
	var (
		gotPath, gotModel string
		gotHeader         http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "gen-1",
			"object": "chat.completion",
			"model":  "google/gemini-2.0-flash-001",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": "```json\n" + string(owlBatch) + "\n```",
				},
			}},
			"usage": map[string]any{"prompt_tokens": 7, "completion_tokens": 3, "total_tokens": 10},
		})
	}))
	defer server.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.0-flash-001",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	resp, err := p.Generate(context.Background(), UserPrompt("", "Number of questions: 1", batchSchema()))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", gotPath)
	}
	if gotModel != "google/gemini-2.0-flash-001" {
		t.Errorf("model = %q", gotModel)
	}
	if gotHeader.Get("X-Title") != "hpquiz" || gotHeader.Get("HTTP-Referer") == "" {
		t.Errorf("attribution headers missing: %v", gotHeader)
	}
	if string(resp.Content) != string(owlBatch) {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 10 {
		t.Errorf("total tokens = %d, want 10", resp.Usage.TotalTokens)
	}
}
