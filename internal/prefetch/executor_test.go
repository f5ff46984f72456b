package prefetch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecutor_BoundsConcurrency(t *testing.T) {
	exec := NewExecutor(context.Background(), 2, nil)

	var (
		running atomic.Int32
		peak    atomic.Int32
	)
	for range 10 {
		exec.Submit("work", func(context.Context) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}
	exec.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(0), running.Load())
}

func TestExecutor_RecoversPanics(t *testing.T) {
	exec := NewExecutor(context.Background(), 1, nil)

	var ran sync.WaitGroup
	ran.Add(1)
	exec.Submit("boom", func(context.Context) { panic("boom") })
	exec.Submit("after", func(context.Context) { ran.Done() })

	exec.Wait()
	ran.Wait()
}

func TestExecutor_CanceledBaseStillRunsTask(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	exec := NewExecutor(base, 1, nil)

	block := make(chan struct{})
	exec.Submit("holder", func(context.Context) { <-block })

	var ran atomic.Bool
	var taskErr atomic.Value
	// Give the holder time to take the only slot.
	time.Sleep(10 * time.Millisecond)
	exec.Submit("queued", func(ctx context.Context) {
		ran.Store(true)
		if ctx.Err() != nil {
			taskErr.Store(ctx.Err())
		}
	})
	cancel()
	time.Sleep(10 * time.Millisecond)
	close(block)
	exec.Wait()

	assert.True(t, ran.Load())
	assert.NotNil(t, taskErr.Load())
}
