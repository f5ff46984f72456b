package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/hpquiz/internal/config"
	"github.com/abhisek/hpquiz/internal/llm"
	"github.com/abhisek/hpquiz/internal/logger"
	"github.com/abhisek/hpquiz/internal/prefetch"
	"github.com/abhisek/hpquiz/internal/questiongen"
	"github.com/abhisek/hpquiz/internal/service"
	"github.com/abhisek/hpquiz/internal/session"
	"github.com/abhisek/hpquiz/internal/store"
)

// quizRuntime holds everything a running quiz owns.
type quizRuntime struct {
	svc   *service.Service
	exec  *prefetch.Executor
	store *store.Store
	log   *logger.Logger

	cancel context.CancelFunc
}

// buildRuntime opens the event log, picks a question generator, and wires
// the prefetch controller and service. Background refills run on a
// context that outlives ctx until close is called.
func buildRuntime(ctx context.Context, cfg config.Config, log *logger.Logger) (*quizRuntime, error) {
	rt := &quizRuntime{log: log}

	var events store.EventRepo
	if cfg.EventLogEnabled() {
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		rt.store = st
		events = st.EventRepo()
		log.Info("event log opened", "path", dbPath)
	}

	gen, err := newGenerator(ctx, cfg, events, log)
	if err != nil {
		rt.close()
		return nil, err
	}

	base, cancel := context.WithCancel(context.WithoutCancel(ctx))
	rt.cancel = cancel
	rt.exec = prefetch.NewExecutor(base, cfg.MaxRefills, log)

	bank := questiongen.NewBank()
	ctrl := prefetch.NewController(gen, bank, rt.exec, cfg.Prefetch, log)
	rt.svc = service.New(session.NewRegistry(cfg.Session), ctrl, events, log)
	return rt, nil
}

// newGenerator returns the LLM-backed generator, or the canned bank when
// no provider is configured.
func newGenerator(ctx context.Context, cfg config.Config, events store.EventRepo, log *logger.Logger) (questiongen.Generator, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, log)
	if errors.Is(err, llm.ErrNoProvider) {
		log.Warn("no LLM provider configured, serving canned questions only")
		return questiongen.NewFallbackGenerator(questiongen.NewBank()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	log.Info("LLM provider ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.ActiveModel())
	return questiongen.New(provider, cfg.QuestionGen), nil
}

// close cancels in-flight refills, waits for them, and closes the store.
func (rt *quizRuntime) close() {
	if rt.cancel != nil {
		rt.cancel()
	}
	if rt.exec != nil {
		rt.exec.Wait()
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.log.Warn("failed to close store", "error", err)
		}
	}
}
