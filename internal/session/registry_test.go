package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hpquiz/internal/quiz"
)

func TestRegistry_CreateGet(t *testing.T) {
	r := NewRegistry(DefaultConfig())

	s, err := r.Create("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", s.ID)
	assert.True(t, r.Exists("abc"))

	got, err := r.Get("abc")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Create("abc")
	assert.ErrorIs(t, err, ErrSessionExists)

	_, err = r.Create("")
	assert.Error(t, err)
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	assert.False(t, r.Exists("missing"))
	_, err := r.Get("missing")
	assert.ErrorIs(t, err, quiz.ErrUnknownSession)
}

func TestRegistry_ConcurrentCreate(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			_, err := r.Create(id)
			assert.NoError(t, err)
			assert.True(t, r.Exists(id))
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, r.Len())
}
