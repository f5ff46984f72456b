package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/hpquiz/internal/dedup"
	"github.com/abhisek/hpquiz/internal/llm"
	"github.com/abhisek/hpquiz/internal/quiz"
)

// ErrEmptyBatch is returned when the model produced no usable question.
var ErrEmptyBatch = errors.New("no usable questions in LLM response")

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

// questionOutput is the raw LLM item before defaults and validation.
type questionOutput struct {
	ID              string         `json:"id"`
	Text            string         `json:"text"`
	Options         []optionOutput `json:"options"`
	CorrectOptionID string         `json:"correct_option_id"`
	Difficulty      string         `json:"difficulty"`
}

type optionOutput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Generate produces a batch of questions for the request.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]quiz.Question, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	ctx = llm.WithPurpose(ctx, "question-gen")
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	llmReq := llm.UserPrompt(systemPrompt, buildUserMessage(req, g.config), QuestionBatchSchema)
	llmReq.MaxTokens = g.config.MaxTokens
	llmReq.Temperature = g.config.Temperature
	llmReq.TopP = g.config.TopP
	llmReq.TopK = g.config.TopK

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	items, err := parseBatch(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	avoid := make(map[string]bool, len(req.Avoid))
	for _, t := range req.Avoid {
		avoid[dedup.Normalize(t)] = true
	}

	var (
		out      []quiz.Question
		firstErr *ValidationError
	)
	for _, item := range items {
		if len(out) == req.Count {
			break
		}
		q, ok := toQuestion(item, req.Difficulty)
		if !ok || avoid[dedup.Normalize(q.Text)] {
			continue
		}
		if verr := g.validate(&q, req); verr != nil {
			if firstErr == nil {
				firstErr = verr
			}
			continue
		}
		out = append(out, q)
	}

	if len(out) == 0 {
		if firstErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrEmptyBatch, firstErr)
		}
		return nil, ErrEmptyBatch
	}
	return out, nil
}

func (g *LLMGenerator) validate(q *quiz.Question, req Request) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, req); verr != nil {
			return verr
		}
	}
	return nil
}

// parseBatch accepts {"questions": [...]} or a bare array, optionally
// wrapped in a markdown code fence.
func parseBatch(content json.RawMessage) ([]questionOutput, error) {
	clean := llm.CleanJSON(content)

	if len(clean) > 0 && clean[0] == '[' {
		var items []questionOutput
		if err := json.Unmarshal(clean, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var batch batchOutput
	if err := json.Unmarshal(clean, &batch); err != nil {
		return nil, err
	}
	return batch.Questions, nil
}

// toQuestion applies defaults: missing ids get UUIDs, a missing correct id
// falls back to the first option, and a missing difficulty to the
// requested one. Items without options are rejected.
func toQuestion(item questionOutput, d quiz.Difficulty) (quiz.Question, bool) {
	if len(item.Options) == 0 {
		return quiz.Question{}, false
	}
	q := quiz.Question{
		ID:              item.ID,
		Text:            item.Text,
		CorrectOptionID: item.CorrectOptionID,
		Difficulty:      quiz.Difficulty(item.Difficulty),
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for _, o := range item.Options {
		id := o.ID
		if id == "" {
			id = uuid.NewString()
		}
		q.Options = append(q.Options, quiz.Option{ID: id, Text: o.Text})
	}
	if q.CorrectOptionID == "" {
		q.CorrectOptionID = q.Options[0].ID
	}
	if q.Difficulty == "" {
		q.Difficulty = d
	}
	return q, true
}
