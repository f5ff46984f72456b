package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/hpquiz/internal/quiz"
)

// ErrSessionExists is returned when creating a session with a taken id.
var ErrSessionExists = errors.New("session already exists")

// Registry maps session ids to their state for the life of the process.
// The registry lock only guards the map; each State has its own lock.
type Registry struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*State
}

// NewRegistry creates an empty registry whose sessions use cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg, sessions: make(map[string]*State)}
}

// Create registers a new session under id.
func (r *Registry) Create(id string) (*State, error) {
	if id == "" {
		return nil, fmt.Errorf("create session: empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		return nil, fmt.Errorf("create session %s: %w", id, ErrSessionExists)
	}
	s := NewState(id, r.cfg)
	r.sessions[id] = s
	return s, nil
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// Get returns the session for id, or quiz.ErrUnknownSession.
func (r *Registry) Get(id string) (*State, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, quiz.ErrUnknownSession)
	}
	return s, nil
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
