// Package service is the quiz facade shared by the HTTP server and the
// terminal client. It resolves sessions, drives the prefetch controller,
// and records session and answer events.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/hpquiz/internal/logger"
	"github.com/abhisek/hpquiz/internal/prefetch"
	"github.com/abhisek/hpquiz/internal/quiz"
	"github.com/abhisek/hpquiz/internal/session"
	"github.com/abhisek/hpquiz/internal/store"
)

// Service runs quiz sessions.
type Service struct {
	sessions *session.Registry
	ctrl     *prefetch.Controller
	events   store.EventRepo
	log      *logger.Logger
}

// New creates a Service. events may be nil to disable the event log.
func New(sessions *session.Registry, ctrl *prefetch.Controller, events store.EventRepo, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{sessions: sessions, ctrl: ctrl, events: events, log: log}
}

// StartSession creates a session with a fresh id and starts its prefetch.
func (s *Service) StartSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	st, err := s.sessions.Create(id)
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}

	s.log.Info("session started", "session_id", id, "difficulty", st.Difficulty())
	s.record(ctx, "session start", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:  id,
			Action:     "start",
			Difficulty: string(st.Difficulty()),
		})
	})

	s.ctrl.StartSession(st)
	return id, nil
}

// NextResult is a served question plus the pending difficulty-change
// notification, if any.
type NextResult struct {
	Question quiz.Question
	Popup    quiz.Popup
	Fallback bool
}

// NextQuestion serves the next question for a session. The popup token is
// consumed only when a question is actually served.
func (s *Service) NextQuestion(ctx context.Context, sessionID string) (*NextResult, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	served, err := s.ctrl.NextQuestion(st)
	if err != nil {
		return nil, fmt.Errorf("next question for session %s: %w", sessionID, err)
	}

	popup := st.ConsumePendingPopup()
	s.log.Debug("question served",
		"session_id", sessionID,
		"question_id", served.Question.ID,
		"difficulty", served.Question.Difficulty,
		"remaining", served.Remaining,
		"fallback", served.Fallback,
		"popup", popup,
	)

	return &NextResult{
		Question: served.Question,
		Popup:    popup,
		Fallback: served.Fallback,
	}, nil
}

// SubmitResult reports the effect of an answer.
type SubmitResult struct {
	Correct           bool
	Known             bool
	Difficulty        quiz.Difficulty
	CorrectAnswerText string
	WindowCompleted   bool
	Direction         quiz.Direction
}

// SubmitAnswer scores an answer. Answers for questions that were never
// served, or were already answered, count as incorrect.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, questionID, optionID string) (*SubmitResult, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	out := s.ctrl.SubmitAnswer(st, questionID, optionID)
	s.log.Debug("answer submitted",
		"session_id", sessionID,
		"question_id", questionID,
		"selected_option_id", optionID,
		"correct", out.Correct,
		"known", out.Known,
		"window_correct", out.CorrectCount,
		"difficulty", out.Difficulty,
	)

	s.record(ctx, "answer", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendAnswer(ctx, store.AnswerEventData{
			SessionID:        sessionID,
			QuestionID:       questionID,
			QuestionText:     out.QuestionText,
			SelectedOptionID: optionID,
			Correct:          out.Correct,
			Known:            out.Known,
			WindowComplete:   out.WindowComplete,
			Direction:        string(out.Direction),
			Difficulty:       string(out.Difficulty),
		})
	})

	return &SubmitResult{
		Correct:           out.Correct,
		Known:             out.Known,
		Difficulty:        out.Difficulty,
		CorrectAnswerText: out.CorrectOptionText,
		WindowCompleted:   out.WindowComplete,
		Direction:         out.Direction,
	}, nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// Stats returns a summary of one session.
func (s *Service) Stats(sessionID string) (session.Stats, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return session.Stats{}, err
	}
	return st.Stats(), nil
}

// record writes an event, logging instead of failing on error. The write
// outlives cancellation of the triggering request.
func (s *Service) record(ctx context.Context, what string, write func(context.Context, store.EventRepo) error) {
	if s.events == nil {
		return
	}
	if err := write(context.WithoutCancel(ctx), s.events); err != nil {
		s.log.Warn("failed to record event", "event", what, "error", err)
	}
}
