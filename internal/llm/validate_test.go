package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

// sortingSchema describes one Sorting Hat record.
func sortingSchema() *Schema {
	return &Schema{
		Name:        "test-sorting",
		Description: "A student and their house",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"student": map[string]any{"type": "string"},
				"year":    map[string]any{"type": "integer", "minimum": 1},
				"house": map[string]any{
					"type": "string",
					"enum": []any{"Gryffindor", "Hufflepuff", "Ravenclaw", "Slytherin"},
				},
				"friends": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"student", "year"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"student":"Hermione","year":1,"house":"Gryffindor"}`, false},
		{"optional fields omitted", `{"student":"Luna","year":4}`, false},
		{"nested array", `{"student":"Ron","year":2,"friends":["Harry","Hermione"]}`, false},
		{"missing required", `{"student":"Neville"}`, true},
		{"wrong type", `{"student":"Draco","year":"first"}`, true},
		{"below minimum", `{"student":"Cedric","year":0}`, true},
		{"unknown enum", `{"student":"Viktor","year":7,"house":"Durmstrang"}`, true},
		{"wrong item type", `{"student":"Ginny","year":1,"friends":[1,2]}`, true},
		{"malformed", `{student}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateResponse(sortingSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var inv *ErrInvalidResponse
			if err != nil && !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
		})
	}
}

func TestValidateResponse_NilSchemaPassesThrough(t *testing.T) {
	raw := json.RawMessage("```json\n{\"anything\":\"goes\"}\n```")
	got, err := validateResponse(nil, raw)
	if err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("content changed without a schema: %s", got)
	}
}

func TestValidateResponse_ReturnsCleanedContent(t *testing.T) {
	raw := json.RawMessage("```json\n{\"student\":\"Ron\",\"year\":1}\n```")
	got, err := validateResponse(sortingSchema(), raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(got) != `{"student":"Ron","year":1}` {
		t.Fatalf("content = %s", got)
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"```\n[1]\n```", `[1]`},
		{`"{\"a\":1}"`, `{"a":1}`},
	}
	for _, tt := range tests {
		if got := string(CleanJSON([]byte(tt.in))); got != tt.want {
			t.Errorf("CleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
