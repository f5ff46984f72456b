// Package prefetch keeps each session's question buffer stocked. It serves
// from the buffer, falls back to canned questions when the buffer is dry,
// and schedules at most one background refill per session at a time.
package prefetch

import (
	"context"
	"errors"

	"github.com/abhisek/hpquiz/internal/adaptive"
	"github.com/abhisek/hpquiz/internal/llm"
	"github.com/abhisek/hpquiz/internal/logger"
	"github.com/abhisek/hpquiz/internal/questiongen"
	"github.com/abhisek/hpquiz/internal/quiz"
	"github.com/abhisek/hpquiz/internal/session"
)

// Config controls refill behavior.
type Config struct {
	// BatchSize is the number of questions requested per refill.
	BatchSize int

	// LowWaterMark triggers a proactive refill when the buffer drops
	// below it after a pop.
	LowWaterMark int

	// PrefetchOnStart schedules a refill as soon as a session starts.
	PrefetchOnStart bool
}

// DefaultConfig returns the default refill configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:       10,
		LowWaterMark:    3,
		PrefetchOnStart: true,
	}
}

// Controller coordinates serving, answering, and background generation.
type Controller struct {
	gen      questiongen.Generator
	fallback questiongen.FallbackSource
	exec     *Executor
	cfg      Config
	log      *logger.Logger
}

// NewController wires a controller. gen is the primary (slow) source and
// fallback the local canned source used when a session's buffer is empty.
func NewController(gen questiongen.Generator, fallback questiongen.FallbackSource, exec *Executor, cfg Config, log *logger.Logger) *Controller {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{gen: gen, fallback: fallback, exec: exec, cfg: cfg, log: log}
}

// StartSession kicks off the first refill when PrefetchOnStart is set.
func (c *Controller) StartSession(st *session.State) {
	if c.cfg.PrefetchOnStart {
		c.ScheduleRefill(st, session.Replace, quiz.Baseline)
	}
}

// NextQuestion serves the next question for st. An empty buffer is
// answered from the fallback source and triggers a replacing refill; a
// buffer running low triggers an extending one. Returns
// quiz.ErrNoQuestionsAvailable when both buffer and fallback are exhausted.
func (c *Controller) NextQuestion(st *session.State) (session.Served, error) {
	served, err := st.Next(c.fallbackFor)
	if err != nil {
		if errors.Is(err, quiz.ErrNoQuestionsAvailable) {
			c.log.Warn("no questions available", "session_id", st.ID, "difficulty", st.Difficulty())
			c.ScheduleRefill(st, session.Replace, st.LeaningTarget())
		}
		return session.Served{}, err
	}

	switch {
	case served.Fallback:
		c.log.Info("served fallback question", "session_id", st.ID, "difficulty", served.Question.Difficulty)
		c.ScheduleRefill(st, session.Replace, st.LeaningTarget())
	case served.Remaining < c.cfg.LowWaterMark:
		c.ScheduleRefill(st, session.Extend, st.LeaningTarget())
	}
	return served, nil
}

// SubmitAnswer records an answer. When it completes the window, a
// replacing refill is scheduled for the new difficulty. A refill already in
// flight keeps running and no second one is started.
func (c *Controller) SubmitAnswer(st *session.State, questionID, optionID string) session.AnswerOutcome {
	out := st.RecordAnswer(questionID, optionID)
	if !out.Known {
		c.log.Info("answer for unknown question scored as incorrect",
			"session_id", st.ID,
			"question_id", questionID,
		)
	}
	if out.WindowComplete {
		c.log.Info("answer window complete",
			"session_id", st.ID,
			"correct", out.CorrectCount,
			"direction", out.Direction,
			"difficulty", out.Difficulty,
		)
		if !c.ScheduleRefill(st, session.Replace, adaptive.TargetFor(out.Direction)) {
			c.log.Debug("difficulty change regeneration skipped, refill in flight",
				"session_id", st.ID,
				"direction", out.Direction,
				"difficulty", out.Difficulty,
			)
		}
	}
	return out
}

// ScheduleRefill starts a background generation for st unless one is
// already in flight. Returns true if a refill was scheduled.
func (c *Controller) ScheduleRefill(st *session.State, mode session.MergeMode, target quiz.Target) bool {
	if !st.TryBeginGeneration() {
		c.log.Debug("refill already in flight", "session_id", st.ID, "mode", mode, "target", target)
		return false
	}

	snap := st.Snapshot()
	req := questiongen.Request{
		Difficulty:      snap.Difficulty,
		Target:          target,
		History:         snap.History,
		Avoid:           snap.Avoid,
		CorrectExamples: snap.CorrectExamples,
		WrongExamples:   snap.WrongExamples,
		Count:           c.cfg.BatchSize,
	}

	c.exec.Submit("refill:"+st.ID, func(ctx context.Context) {
		c.refill(llm.WithSessionID(ctx, st.ID), st, mode, req)
	})
	return true
}

func (c *Controller) refill(ctx context.Context, st *session.State, mode session.MergeMode, req questiongen.Request) {
	var qs []quiz.Question
	// Clear the guard even if the generator panics.
	defer func() {
		added := st.FinishGeneration(mode, qs)
		if len(qs) > 0 {
			c.log.Debug("refill merged",
				"session_id", st.ID,
				"mode", mode,
				"generated", len(qs),
				"added", added,
			)
		}
	}()

	generated, err := c.gen.Generate(ctx, req)
	if err != nil {
		gerr := &quiz.GenerationError{
			Difficulty: req.Difficulty,
			Target:     req.Target,
			Count:      req.Count,
			Err:        err,
		}
		c.log.Warn("refill failed",
			"session_id", st.ID,
			"difficulty", req.Difficulty,
			"target", req.Target,
			"count", req.Count,
			"error", gerr,
		)
		return
	}
	qs = generated
}

func (c *Controller) fallbackFor(d quiz.Difficulty) []quiz.Question {
	if c.fallback == nil {
		return nil
	}
	return c.fallback.Fallback(d, 0)
}
