package llm

import (
	"slices"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text":    map[string]any{"type": "string"},
						"options": map[string]any{"type": "array", "minItems": 2, "items": map[string]any{"type": "string"}},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
					},
					"required": []any{"text", "options", "difficulty"},
				},
			},
		},
		"required": []any{"questions"},
	}

	schema := geminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("root type = %s", schema.Type)
	}
	questions := schema.Properties["questions"]
	if questions.Type != genai.TypeArray || questions.MinItems == nil || *questions.MinItems != 1 {
		t.Fatalf("questions = %+v", questions)
	}
	item := questions.Items
	if !slices.Equal(item.PropertyOrdering, []string{"text", "options", "difficulty"}) {
		t.Errorf("PropertyOrdering = %v", item.PropertyOrdering)
	}
	if got := item.Properties["difficulty"].Enum; len(got) != 3 {
		t.Errorf("difficulty enum = %v", got)
	}
	if opts := item.Properties["options"]; opts.Items.Type != genai.TypeString || *opts.MinItems != 2 {
		t.Errorf("options = %+v", opts)
	}
}

func TestGeminiConfig(t *testing.T) {
	req := UserPrompt("You write Harry Potter trivia.", "go", batchSchema()).withDefaults()
	req.Temperature = 0.6
	req.TopP = 0.95
	req.TopK = 40

	cfg := geminiConfig(req)
	if cfg.ResponseMIMEType != "application/json" || cfg.ResponseSchema == nil {
		t.Fatalf("structured output not configured: %+v", cfg)
	}
	if *cfg.TopK != 40 || *cfg.TopP != 0.95 || *cfg.Temperature != 0.6 {
		t.Errorf("sampling = %v/%v/%v", *cfg.Temperature, *cfg.TopP, *cfg.TopK)
	}
	if cfg.MaxOutputTokens != DefaultMaxTokens {
		t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.SystemInstruction == nil {
		t.Error("system instruction missing")
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	tests := []struct {
		name   string
		result *genai.GenerateContentResponse
		want   StopReason
	}{
		{"stop", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}}, StopEnd},
		{"max tokens", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}}}, StopMaxTokens},
		{"safety", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}, StopRefused},
		{"blocked prompt", &genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety}}, StopRefused},
		{"no candidates", &genai.GenerateContentResponse{}, StopEnd},
	}
	for _, tt := range tests {
		if got := mapGeminiStopReason(tt.result); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
