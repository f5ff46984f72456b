package prefetch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/abhisek/hpquiz/internal/logger"
)

// DefaultMaxConcurrent bounds process-wide concurrent refills.
const DefaultMaxConcurrent = 8

// Executor runs fire-and-forget background tasks, at most maxConcurrent
// at a time. Tasks run on the executor's base context, never on the
// context of the request that submitted them.
type Executor struct {
	base context.Context
	sem  *semaphore.Weighted
	wg   sync.WaitGroup
	log  *logger.Logger
}

// NewExecutor creates an executor. Canceling base makes queued tasks run
// with a canceled context so they can release what they hold.
func NewExecutor(base context.Context, maxConcurrent int, log *logger.Logger) *Executor {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{
		base: base,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
		log:  log,
	}
}

// Submit schedules task and returns immediately.
func (e *Executor) Submit(name string, task func(ctx context.Context)) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.log.Error("background task panicked",
					"task", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := e.sem.Acquire(e.base, 1); err != nil {
			e.log.Warn("background task running without a slot", "task", name, "error", err)
			task(e.base)
			return
		}
		defer e.sem.Release(1)
		task(e.base)
	}()
}

// Wait blocks until every submitted task has returned.
func (e *Executor) Wait() {
	e.wg.Wait()
}
