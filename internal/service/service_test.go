package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hpquiz/internal/prefetch"
	"github.com/abhisek/hpquiz/internal/questiongen"
	"github.com/abhisek/hpquiz/internal/quiz"
	"github.com/abhisek/hpquiz/internal/session"
	"github.com/abhisek/hpquiz/internal/store"
)

type harness struct {
	svc    *Service
	exec   *prefetch.Executor
	events store.EventRepo
}

func newHarness(t *testing.T, prefetchOnStart bool) *harness {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	bank := questiongen.NewBank()
	exec := prefetch.NewExecutor(context.Background(), 2, nil)
	cfg := prefetch.DefaultConfig()
	cfg.PrefetchOnStart = prefetchOnStart
	ctrl := prefetch.NewController(questiongen.NewFallbackGenerator(bank), bank, exec, cfg, nil)

	events := st.EventRepo()
	return &harness{
		svc:    New(session.NewRegistry(session.DefaultConfig()), ctrl, events, nil),
		exec:   exec,
		events: events,
	}
}

func TestStartSession_RegistersAndPrefetches(t *testing.T) {
	h := newHarness(t, true)
	ctx := t.Context()

	id, err := h.svc.StartSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, h.svc.SessionCount())

	h.exec.Wait()
	stats, err := h.svc.Stats(id)
	require.NoError(t, err)
	assert.Equal(t, quiz.Medium, stats.Difficulty)
	assert.Equal(t, questiongen.NewBank().Size(quiz.Medium), stats.Buffered)

	next, err := h.svc.NextQuestion(ctx, id)
	require.NoError(t, err)
	assert.False(t, next.Fallback)
	assert.Equal(t, quiz.PopupNone, next.Popup)
}

func TestStartSession_DistinctIDs(t *testing.T) {
	h := newHarness(t, false)
	a, err := h.svc.StartSession(t.Context())
	require.NoError(t, err)
	b, err := h.svc.StartSession(t.Context())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, h.svc.SessionCount())
}

func TestNextQuestion_EmptyBufferServesFallback(t *testing.T) {
	h := newHarness(t, false)
	id, err := h.svc.StartSession(t.Context())
	require.NoError(t, err)

	next, err := h.svc.NextQuestion(t.Context(), id)
	require.NoError(t, err)
	assert.True(t, next.Fallback)
	assert.NoError(t, next.Question.Validate())
	h.exec.Wait()
}

func TestUnknownSession(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.svc.NextQuestion(t.Context(), "nope")
	assert.ErrorIs(t, err, quiz.ErrUnknownSession)

	_, err = h.svc.SubmitAnswer(t.Context(), "nope", "q", "a")
	assert.ErrorIs(t, err, quiz.ErrUnknownSession)

	_, err = h.svc.Stats("nope")
	assert.ErrorIs(t, err, quiz.ErrUnknownSession)
}

func TestSubmitAnswer_WindowRaisesDifficultyAndPopsUpOnce(t *testing.T) {
	h := newHarness(t, true)
	ctx := t.Context()

	id, err := h.svc.StartSession(ctx)
	require.NoError(t, err)
	h.exec.Wait()

	var res *SubmitResult
	for i := range 5 {
		next, err := h.svc.NextQuestion(ctx, id)
		require.NoError(t, err, "question %d", i)
		assert.Equal(t, quiz.PopupNone, next.Popup)
		h.exec.Wait()

		res, err = h.svc.SubmitAnswer(ctx, id, next.Question.ID, next.Question.CorrectOptionID)
		require.NoError(t, err)
		assert.True(t, res.Correct)
		assert.True(t, res.Known)
		assert.Equal(t, next.Question.CorrectText(), res.CorrectAnswerText)
		h.exec.Wait()
	}

	assert.True(t, res.WindowCompleted)
	assert.Equal(t, quiz.Increase, res.Direction)
	assert.Equal(t, quiz.Hard, res.Difficulty)

	next, err := h.svc.NextQuestion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, quiz.PopupTooEasy, next.Popup)

	next, err = h.svc.NextQuestion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, quiz.PopupNone, next.Popup)
	h.exec.Wait()

	summaries, err := h.events.SessionSummaries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, id, summaries[0].SessionID)
	assert.Equal(t, 5, summaries[0].Answered)
	assert.Equal(t, 5, summaries[0].Correct)
}

func TestSubmitAnswer_StaleAnswerIsIncorrect(t *testing.T) {
	h := newHarness(t, true)
	ctx := t.Context()
	id, err := h.svc.StartSession(ctx)
	require.NoError(t, err)
	h.exec.Wait()

	next, err := h.svc.NextQuestion(ctx, id)
	require.NoError(t, err)
	h.exec.Wait()

	first, err := h.svc.SubmitAnswer(ctx, id, next.Question.ID, next.Question.CorrectOptionID)
	require.NoError(t, err)
	assert.True(t, first.Correct)

	again, err := h.svc.SubmitAnswer(ctx, id, next.Question.ID, next.Question.CorrectOptionID)
	require.NoError(t, err)
	assert.False(t, again.Correct)
	assert.False(t, again.Known)
	assert.Empty(t, again.CorrectAnswerText)

	stats, err := h.svc.Stats(id)
	require.NoError(t, err)
	assert.Len(t, stats.CorrectTexts, 1)
	assert.Equal(t, 2, stats.Answered)
}

func TestService_NilEventRepo(t *testing.T) {
	bank := questiongen.NewBank()
	exec := prefetch.NewExecutor(context.Background(), 1, nil)
	ctrl := prefetch.NewController(questiongen.NewFallbackGenerator(bank), bank, exec, prefetch.DefaultConfig(), nil)
	svc := New(session.NewRegistry(session.DefaultConfig()), ctrl, nil, nil)

	id, err := svc.StartSession(t.Context())
	require.NoError(t, err)
	exec.Wait()
	next, err := svc.NextQuestion(t.Context(), id)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(t.Context(), id, next.Question.ID, "x")
	require.NoError(t, err)
	exec.Wait()
}
