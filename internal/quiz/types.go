package quiz

import "fmt"

// Option is a single answer choice of a multiple-choice question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice trivia question ready to be served.
type Question struct {
	// ID is opaque and unique within a session's lifetime.
	ID string `json:"id"`

	// Text is the prompt shown to the player.
	Text string `json:"text"`

	// Options holds two or more choices in display order.
	Options []Option `json:"options"`

	// CorrectOptionID references one of Options.
	CorrectOptionID string `json:"correct_option_id"`

	// Difficulty is the rung the question was generated for.
	Difficulty Difficulty `json:"difficulty"`
}

// Validate checks the structural invariants of a question.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question %q: empty text", q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q: need at least 2 options, got %d", q.ID, len(q.Options))
	}
	if _, ok := q.Option(q.CorrectOptionID); !ok {
		return fmt.Errorf("question %q: correct option %q is not one of its options", q.ID, q.CorrectOptionID)
	}
	return nil
}

// Option returns the option with the given id.
func (q *Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectText returns the text of the correct option, or "" if the
// question is malformed.
func (q *Question) CorrectText() string {
	o, _ := q.Option(q.CorrectOptionID)
	return o.Text
}

// Clone returns a deep copy so buffered questions never share option slices.
func (q Question) Clone() Question {
	opts := make([]Option, len(q.Options))
	copy(opts, q.Options)
	q.Options = opts
	return q
}

// Difficulty is one rung of the ordered easy < medium < hard scale.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Rungs lists the difficulty scale in ascending order.
var Rungs = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty maps a label to a rung. Unknown labels are rejected.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Rungs {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Valid reports whether d is a defined rung.
func (d Difficulty) Valid() bool {
	return d.index() >= 0
}

// Step moves one rung in the given direction, clamped at both ends.
func (d Difficulty) Step(dir Direction) Difficulty {
	i := d.index()
	if i < 0 {
		return Medium
	}
	switch dir {
	case Increase:
		if i < len(Rungs)-1 {
			return Rungs[i+1]
		}
	case Decrease:
		if i > 0 {
			return Rungs[i-1]
		}
	}
	return d
}

func (d Difficulty) index() int {
	for i, r := range Rungs {
		if r == d {
			return i
		}
	}
	return -1
}

// Direction is the difficulty engine's verdict on a full answer window.
type Direction string

const (
	None     Direction = "none"
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Target tells the generator which way to lean relative to the current rung.
type Target string

const (
	Baseline Target = "baseline"
	Harder   Target = "harder"
	Easier   Target = "easier"
)

// Popup is the one-shot notification shown after a difficulty transition.
type Popup string

const (
	PopupNone    Popup = ""
	PopupTooEasy Popup = "too_easy_increasing_difficulty"
	PopupTooHard Popup = "too_hard_decreasing_difficulty"
)

// PopupFor returns the popup token for a transition direction.
func PopupFor(dir Direction) Popup {
	switch dir {
	case Increase:
		return PopupTooEasy
	case Decrease:
		return PopupTooHard
	default:
		return PopupNone
	}
}
