package questiongen

import (
	"fmt"

	"github.com/abhisek/hpquiz/internal/quiz"
)

// MaxQuestionTextLen is the longest accepted question text in bytes.
const MaxQuestionTextLen = 500

// StructuralValidator checks that required fields are present, within
// length limits, and that the correct option references a real option.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question, _ Request) *ValidationError {
	if q.Text == "" {
		return v.fail("text is empty")
	}
	if len(q.Text) > MaxQuestionTextLen {
		return v.fail(fmt.Sprintf("text exceeds %d characters", MaxQuestionTextLen))
	}
	if len(q.Options) < 2 {
		return v.fail(fmt.Sprintf("need at least 2 options, got %d", len(q.Options)))
	}
	ids := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o.ID == "" {
			return v.fail("option id is empty")
		}
		if o.Text == "" {
			return v.fail(fmt.Sprintf("option %q has empty text", o.ID))
		}
		if ids[o.ID] {
			return v.fail(fmt.Sprintf("duplicate option id %q", o.ID))
		}
		ids[o.ID] = true
	}
	if !ids[q.CorrectOptionID] {
		return v.fail(fmt.Sprintf("correct_option_id %q is not one of the options", q.CorrectOptionID))
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}

// DifficultyValidator rejects questions labelled with an unknown rung.
type DifficultyValidator struct{}

func (v *DifficultyValidator) Name() string { return "difficulty" }

func (v *DifficultyValidator) Validate(q *quiz.Question, _ Request) *ValidationError {
	if !q.Difficulty.Valid() {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("difficulty %q must be easy, medium, or hard", q.Difficulty),
		}
	}
	return nil
}
