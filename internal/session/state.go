package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/hpquiz/internal/adaptive"
	"github.com/abhisek/hpquiz/internal/dedup"
	"github.com/abhisek/hpquiz/internal/quiz"
)

// Config holds per-session tuning.
type Config struct {
	// WindowSize is the number of answers that triggers a difficulty decision.
	WindowSize int

	// AvoidListSize bounds the recent-generated ring used for avoid lists.
	AvoidListSize int

	// StartDifficulty is the rung new sessions begin at.
	StartDifficulty quiz.Difficulty

	// FallbackBatch caps how many canned questions are installed when the
	// buffer runs dry. Zero or less installs every unseen candidate.
	FallbackBatch int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize:      5,
		AvoidListSize:   dedup.DefaultRingSize,
		StartDifficulty: quiz.Medium,
		FallbackBatch:   3,
	}
}

// MergeMode selects how generated questions are merged into the buffer.
type MergeMode string

const (
	// Replace discards the current buffer before appending.
	Replace MergeMode = "replace"
	// Extend appends to the current buffer.
	Extend MergeMode = "extend"
)

// FallbackFunc returns canned candidate questions for a difficulty. It must
// not block; already-seen candidates are skipped by the caller.
type FallbackFunc func(d quiz.Difficulty) []quiz.Question

// State is the authoritative record of one quiz session. All fields are
// guarded by mu; every exported method acquires it for its full duration
// and none of them call out to the generator.
type State struct {
	// ID is the opaque session identifier.
	ID string

	// CreatedAt is when the session was started.
	CreatedAt time.Time

	mu sync.Mutex

	// cfg is fixed at creation.
	cfg Config

	// difficulty is the current rung.
	difficulty quiz.Difficulty

	// buffer holds not-yet-served questions in FIFO order.
	buffer []quiz.Question

	// served holds questions popped from the buffer but not yet answered.
	served map[string]quiz.Question

	// window is the rolling record of recent outcomes.
	window *adaptive.Window

	// tracker remembers every text accepted into or served from the buffer.
	tracker *dedup.Tracker

	// usedIDs holds every question id ever placed in the buffer.
	usedIDs map[string]struct{}

	// correctTexts and wrongTexts are the answered question texts by outcome.
	correctTexts []string
	wrongTexts   []string

	// popup is the pending one-shot difficulty-change token.
	popup quiz.Popup

	// generating is set while a background refill is in flight.
	generating bool

	// answered and correct count every recorded answer.
	answered int
	correct  int
}

// NewState creates a session at the configured start difficulty.
func NewState(id string, cfg Config) *State {
	if !cfg.StartDifficulty.Valid() {
		cfg.StartDifficulty = quiz.Medium
	}
	return &State{
		ID:         id,
		CreatedAt:  time.Now(),
		cfg:        cfg,
		difficulty: cfg.StartDifficulty,
		served:     make(map[string]quiz.Question),
		window:     adaptive.NewWindow(cfg.WindowSize),
		tracker:    dedup.NewTracker(cfg.AvoidListSize),
		usedIDs:    make(map[string]struct{}),
	}
}

// Served is the result of taking the next question from a session.
type Served struct {
	Question quiz.Question

	// Remaining is the buffer length after the pop.
	Remaining int

	// Fallback is true when the buffer was empty and canned questions
	// were installed to answer the request.
	Fallback bool
}

// Next pops the next buffered question and marks it served. If the buffer
// is empty, fallback is called for the current difficulty and up to
// FallbackBatch of its not-yet-seen questions replace the buffer before
// popping. Returns quiz.ErrNoQuestionsAvailable if nothing new remains.
func (s *State) Next(fallback FallbackFunc) (Served, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usedFallback := false
	if len(s.buffer) == 0 {
		if fallback == nil {
			return Served{}, quiz.ErrNoQuestionsAvailable
		}
		var fresh []quiz.Question
		for _, q := range fallback(s.difficulty) {
			if s.cfg.FallbackBatch > 0 && len(fresh) == s.cfg.FallbackBatch {
				break
			}
			if !s.tracker.Seen(q.Text) {
				fresh = append(fresh, q)
			}
		}
		s.mergeLocked(Replace, fresh)
		if len(s.buffer) == 0 {
			return Served{}, quiz.ErrNoQuestionsAvailable
		}
		usedFallback = true
	}

	q := s.buffer[0]
	s.buffer[0] = quiz.Question{}
	s.buffer = s.buffer[1:]
	s.served[q.ID] = q
	s.tracker.MarkServed(q.Text)

	return Served{Question: q.Clone(), Remaining: len(s.buffer), Fallback: usedFallback}, nil
}

// Merge filters qs through the dedup tracker and installs the survivors
// into the buffer. Returns the number of questions added.
func (s *State) Merge(mode MergeMode, qs []quiz.Question) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(mode, qs)
}

func (s *State) mergeLocked(mode MergeMode, qs []quiz.Question) int {
	fresh := s.tracker.FilterNew(qs)
	if len(fresh) == 0 {
		return 0
	}
	if mode == Replace {
		s.buffer = nil
	}
	for _, q := range fresh {
		q = q.Clone()
		if _, dup := s.usedIDs[q.ID]; dup || q.ID == "" {
			q.ID = uuid.NewString()
		}
		if !q.Difficulty.Valid() {
			q.Difficulty = s.difficulty
		}
		s.usedIDs[q.ID] = struct{}{}
		s.buffer = append(s.buffer, q)
	}
	return len(fresh)
}

// TryBeginGeneration sets the in-flight guard. It returns false if a
// refill is already running for this session.
func (s *State) TryBeginGeneration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	return true
}

// FinishGeneration merges a generated batch and clears the guard in one
// step. A nil or empty batch leaves the buffer untouched.
func (s *State) FinishGeneration(mode MergeMode, qs []quiz.Question) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if len(qs) == 0 {
		return 0
	}
	return s.mergeLocked(mode, qs)
}

// Generating reports whether a refill is in flight.
func (s *State) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// Snapshot is a consistent copy of the inputs the generator needs.
type Snapshot struct {
	Difficulty      quiz.Difficulty
	History         []bool
	Avoid           []string
	CorrectExamples []string
	WrongExamples   []string
}

// Snapshot copies generation inputs under the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Difficulty:      s.difficulty,
		History:         s.window.Results(),
		Avoid:           s.tracker.AvoidList(),
		CorrectExamples: append([]string(nil), s.correctTexts...),
		WrongExamples:   append([]string(nil), s.wrongTexts...),
	}
}

// LeaningTarget derives the generation target from the partial window.
func (s *State) LeaningTarget() quiz.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return adaptive.Lean(s.window.Results(), s.window.Size())
}

// AnswerOutcome describes the effect of a recorded answer.
type AnswerOutcome struct {
	// Correct is false for wrong, unknown, and already-answered questions.
	Correct bool

	// Known is false when the question id was not awaiting an answer.
	Known bool

	// QuestionText and CorrectOptionText describe the answered question,
	// if Known.
	QuestionText      string
	CorrectOptionText string

	// WindowComplete is true when this answer filled the window.
	WindowComplete bool

	// Window is the window contents at the time it filled (nil otherwise).
	Window []bool

	// CorrectCount is the number of correct outcomes in Window, or in the
	// partial window when WindowComplete is false.
	CorrectCount int

	// Direction is the applied transition when WindowComplete is true.
	Direction quiz.Direction

	// Difficulty is the rung after the answer was applied.
	Difficulty quiz.Difficulty
}

// RecordAnswer scores an answer and, when the window fills, applies the
// difficulty transition. The whole sequence runs under one lock
// acquisition so concurrent answers cannot both observe a full window.
func (s *State) RecordAnswer(questionID, optionID string) AnswerOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out AnswerOutcome
	q, ok := s.served[questionID]
	if ok {
		out.Known = true
		out.Correct = optionID == q.CorrectOptionID
		out.QuestionText = q.Text
		out.CorrectOptionText = q.CorrectText()
		delete(s.served, questionID)
		if out.Correct {
			s.correctTexts = append(s.correctTexts, q.Text)
		} else {
			s.wrongTexts = append(s.wrongTexts, q.Text)
		}
	}

	s.answered++
	if out.Correct {
		s.correct++
	}

	full := s.window.Push(out.Correct)
	out.CorrectCount = s.window.Correct()
	if full {
		out.WindowComplete = true
		out.Window = s.window.Results()
		out.Direction = adaptive.Decide(out.Window, s.window.Size())
		s.adjustLocked(out.Direction)
	}
	out.Difficulty = s.difficulty
	return out
}

// AdjustDifficulty moves one rung in dir (clamped), clears the window and
// sets the pending popup. Returns the new difficulty.
func (s *State) AdjustDifficulty(dir quiz.Direction) quiz.Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjustLocked(dir)
	return s.difficulty
}

func (s *State) adjustLocked(dir quiz.Direction) {
	s.difficulty = s.difficulty.Step(dir)
	s.window.Clear()
	s.popup = quiz.PopupFor(dir)
}

// ConsumePendingPopup returns the pending popup token and clears it.
func (s *State) ConsumePendingPopup() quiz.Popup {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.popup
	s.popup = quiz.PopupNone
	return p
}

// Difficulty returns the current rung.
func (s *State) Difficulty() quiz.Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

// Stats is a point-in-time summary of a session.
type Stats struct {
	Difficulty   quiz.Difficulty
	Buffered     int
	Unanswered   int
	WindowLen    int
	Answered     int
	Correct      int
	SeenTexts    int
	Generating   bool
	CorrectTexts []string
	WrongTexts   []string
}

// Stats returns a consistent summary of the session.
func (s *State) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Difficulty:   s.difficulty,
		Buffered:     len(s.buffer),
		Unanswered:   len(s.served),
		WindowLen:    s.window.Len(),
		Answered:     s.answered,
		Correct:      s.correct,
		SeenTexts:    s.tracker.Len(),
		Generating:   s.generating,
		CorrectTexts: append([]string(nil), s.correctTexts...),
		WrongTexts:   append([]string(nil), s.wrongTexts...),
	}
}

// BufferedIDs returns the ids currently in the buffer, in order.
func (s *State) BufferedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.buffer))
	for i, q := range s.buffer {
		ids[i] = q.ID
	}
	return ids
}

// UnansweredIDs returns the ids served but not yet answered.
func (s *State) UnansweredIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.served))
	for id := range s.served {
		ids = append(ids, id)
	}
	return ids
}
