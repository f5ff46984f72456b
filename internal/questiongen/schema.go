package questiongen

import "github.com/abhisek/hpquiz/internal/llm"

// QuestionBatchSchema defines the JSON schema for LLM question batch responses.
var QuestionBatchSchema = &llm.Schema{
	Name:        "trivia-question-batch",
	Description: "A batch of multiple-choice trivia questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Short unique identifier for the question within this batch",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the player",
						},
						"options": map[string]any{
							"type":     "array",
							"minItems": 2,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"id":   map[string]any{"type": "string"},
									"text": map[string]any{"type": "string"},
								},
								"required":             []any{"id", "text"},
								"additionalProperties": false,
							},
							"description": "Exactly 4 answer options, one of which is correct",
						},
						"correct_option_id": map[string]any{
							"type":        "string",
							"description": "The id of the correct option",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
					},
					"required":             []any{"id", "text", "options", "correct_option_id", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
