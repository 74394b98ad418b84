package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fldgames/gamemaster/internal/game"
)

// Store is the slice of persistence a session needs: the current config
// for transition rules and the state row it owns.
type Store interface {
	GameConfig(ctx context.Context, gameID string) (game.Config, error)
	GameState(ctx context.Context, gameID string) (game.State, error)
	SaveGameState(ctx context.Context, gameID string, st game.State) error
}

// Session is the single writer for one game's replicated state. All
// mutations go through Apply, which persists and broadcasts; the countdown
// ticker is just another mutator driven by the injected clock.
type Session struct {
	gameID string
	store  Store
	broker *Broker
	clock  clockwork.Clock
	logger *slog.Logger

	mu    sync.Mutex
	state game.State
	stop  chan struct{} // non-nil while the ticker goroutine runs
}

func newSession(gameID string, st game.State, store Store, broker *Broker, clock clockwork.Clock, logger *slog.Logger) *Session {
	s := &Session{
		gameID: gameID,
		store:  store,
		broker: broker,
		clock:  clock,
		logger: logger,
		state:  st,
	}
	// A game loaded mid-round picks its countdown back up.
	s.mu.Lock()
	s.syncTickerLocked()
	s.mu.Unlock()
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs fn against a copy of the state under the session lock,
// persists the result, and broadcasts the new snapshot. When fn or the
// write fails the in-memory state is left untouched, so viewers never see
// a state the store does not hold.
func (s *Session) Apply(ctx context.Context, fn func(st *game.State, cfg game.Config) error) (game.State, error) {
	cfg, err := s.store.GameConfig(ctx, s.gameID)
	if err != nil {
		return game.State{}, err
	}

	s.mu.Lock()
	next := s.state
	if err := fn(&next, cfg); err != nil {
		s.mu.Unlock()
		return game.State{}, err
	}
	if err := s.store.SaveGameState(ctx, s.gameID, next); err != nil {
		s.mu.Unlock()
		return game.State{}, err
	}
	s.state = next
	s.syncTickerLocked()
	// Publish before releasing the lock so snapshots reach the broker in
	// commit order. Publish never blocks (slow subscribers are dropped).
	s.publishState(next)
	s.mu.Unlock()

	return next, nil
}

// Notify broadcasts a non-state event (submission received, config saved)
// to everyone watching the game.
func (s *Session) Notify(event Event) {
	event.GameID = s.gameID
	s.broker.Publish(s.gameID, event)
}

// Close stops the countdown goroutine.
func (s *Session) Close() {
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.mu.Unlock()
}

func (s *Session) publishState(st game.State) {
	s.broker.Publish(s.gameID, Event{Type: EventState, GameID: s.gameID, State: &st})
}

// syncTickerLocked starts or stops the countdown goroutine to match the
// running flag and the clock. Callers hold s.mu.
func (s *Session) syncTickerLocked() {
	shouldTick := s.state.IsRunning && s.state.TimeRemaining > 0
	switch {
	case shouldTick && s.stop == nil:
		s.stop = make(chan struct{})
		go s.runTicker(s.stop)
	case !shouldTick && s.stop != nil:
		close(s.stop)
		s.stop = nil
	}
}

func (s *Session) runTicker(stop chan struct{}) {
	ticker := s.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if !s.tick(stop) {
				return
			}
		}
	}
}

// tick takes one second off the clock, persists, and broadcasts. Returns
// false once the countdown no longer advances, ending the goroutine.
func (s *Session) tick(stop chan struct{}) bool {
	s.mu.Lock()
	if s.stop != stop {
		// Superseded by Apply flipping the running flag.
		s.mu.Unlock()
		return false
	}
	next := s.state
	if !next.Tick() {
		s.stop = nil
		s.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	err := s.store.SaveGameState(ctx, s.gameID, next)
	cancel()
	if err != nil {
		// Keep counting locally; the next successful write catches up.
		s.logger.Error("persisting countdown tick", "game_id", s.gameID, "error", err)
	}
	s.state = next
	if next.TimeRemaining == 0 {
		s.stop = nil
	}
	s.publishState(next)
	s.mu.Unlock()

	return next.TimeRemaining > 0
}
