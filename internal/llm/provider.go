package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// DefaultMaxTokens is used when a Request leaves MaxTokens unset.
const DefaultMaxTokens = 2048

// Provider generates structured output from a hosted model. Question
// batches are the only traffic today, but nothing here is quiz specific.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the returned Content has been cleaned and validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, switches the provider to its native structured
	// output mode. When nil, Content is the raw model text.
	Schema *Schema

	MaxTokens int

	// Sampling. Zero leaves the provider default in place.
	Temperature float64
	TopP        float64
	TopK        int
}

// UserPrompt builds the usual single-turn request.
func UserPrompt(system, user string, schema *Schema) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
		Schema:   schema,
	}
}

func (r Request) withDefaults() Request {
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema document for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "trivia-question-batch". Anthropic and
	// OpenAI both require one.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is the normalized reason generation ended.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
	StopRefused   StopReason = "refused"
)

// Response holds the model output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

var (
	errRefused      = errors.New("model declined to answer")
	errEmptyContent = errors.New("empty response")
)

// finish turns raw provider output into a Response. A truncated batch is
// useless JSON, so it fails before schema validation.
func finish(req Request, raw json.RawMessage, usage Usage, model string, stop StopReason) (*Response, error) {
	switch {
	case stop == StopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Content: raw}
	case stop == StopRefused:
		return nil, &ErrInvalidResponse{Content: raw, Err: errRefused}
	case len(raw) == 0:
		return nil, &ErrInvalidResponse{Err: errEmptyContent}
	}

	content, err := validateResponse(req.Schema, raw)
	if err != nil {
		return nil, err
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}
