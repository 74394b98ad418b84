package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
)

// Registry lazily materializes one Session per game. Whichever request
// touches a game first (console action, player state read, event stream)
// brings its session to life.
type Registry struct {
	store  Store
	broker *Broker
	clock  clockwork.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(store Store, broker *Broker, clock clockwork.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		store:    store,
		broker:   broker,
		clock:    clock,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for gameID, loading persisted state on first
// use. Fails with the store's error when the game has no state row.
func (r *Registry) Get(ctx context.Context, gameID string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[gameID]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if s, ok := r.sessions[gameID]; ok {
		return s, nil
	}

	st, err := r.store.GameState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	s = newSession(gameID, st, r.store, r.broker, r.clock, r.logger)
	r.sessions[gameID] = s
	return s, nil
}

// Remove drops a game's session, stopping its countdown. Used when the
// game is deleted.
func (r *Registry) Remove(gameID string) {
	r.mu.Lock()
	s, ok := r.sessions[gameID]
	delete(r.sessions, gameID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Close stops every live session.
func (r *Registry) Close() {
	r.mu.Lock()
	for id, s := range r.sessions {
		s.Close()
		delete(r.sessions, id)
	}
	r.mu.Unlock()
}
