package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fldgames/gamemaster/internal/game"
)

type fakeStore struct {
	mu       sync.Mutex
	cfg      game.Config
	states   map[string]game.State
	saves    int
	failSave bool
}

func newFakeStore(cfg game.Config, gameID string, st game.State) *fakeStore {
	return &fakeStore{cfg: cfg, states: map[string]game.State{gameID: st}}
}

func (f *fakeStore) GameConfig(_ context.Context, _ string) (game.Config, error) {
	return f.cfg, nil
}

func (f *fakeStore) GameState(_ context.Context, gameID string) (game.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.states[gameID]
	if !ok {
		return st, errors.New("not found")
	}
	return st, nil
}

func (f *fakeStore) SaveGameState(_ context.Context, gameID string, st game.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("save failed")
	}
	f.states[gameID] = st
	f.saves++
	return nil
}

func (f *fakeStore) saved(gameID string) game.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[gameID]
}

func testConfig() game.Config {
	return game.Config{
		GameName:        "Test",
		StationDuration: 15,
		PauseDuration:   5,
		PauseAfterRound: 2,
		Stations: []game.Station{
			{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"},
		},
	}
}

func testRegistry(t *testing.T, st game.State) (*Registry, *fakeStore, *Broker, *clockwork.FakeClock) {
	t.Helper()
	store := newFakeStore(testConfig(), "g1", st)
	broker := NewBroker()
	clock := clockwork.NewFakeClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRegistry(store, broker, clock, logger)
	t.Cleanup(r.Close)
	return r, store, broker, clock
}

func TestApplyPersistsAndBroadcasts(t *testing.T) {
	r, store, broker, _ := testRegistry(t, game.State{})
	ctx := context.Background()

	s, err := r.Get(ctx, "g1")
	require.NoError(t, err)

	ch := broker.Subscribe("g1")
	defer broker.Unsubscribe("g1", ch)

	st, err := s.Apply(ctx, func(st *game.State, cfg game.Config) error {
		st.Start(cfg)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, st.IsRunning)
	assert.Equal(t, 15*60, st.TimeRemaining)
	assert.Equal(t, st, store.saved("g1"))

	select {
	case data := <-ch:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, EventState, ev.Type)
		assert.Equal(t, "g1", ev.GameID)
		require.NotNil(t, ev.State)
		assert.Equal(t, st, *ev.State)
	case <-time.After(time.Second):
		t.Fatal("no state event received")
	}
}

func TestApplyRejectedTransitionLeavesStateAlone(t *testing.T) {
	start := game.State{CurrentRound: 4, TimeRemaining: 42}
	r, store, _, _ := testRegistry(t, start)
	ctx := context.Background()

	s, err := r.Get(ctx, "g1")
	require.NoError(t, err)
	savesBefore := store.saves

	_, err = s.Apply(ctx, func(st *game.State, cfg game.Config) error {
		return st.NextRound(cfg)
	})
	require.ErrorIs(t, err, game.ErrLastRound)
	assert.Equal(t, start, s.Snapshot())
	assert.Equal(t, savesBefore, store.saves, "rejected transition must not write")
}

func TestApplySaveFailureRollsBack(t *testing.T) {
	r, store, _, _ := testRegistry(t, game.State{})
	ctx := context.Background()

	s, err := r.Get(ctx, "g1")
	require.NoError(t, err)

	store.failSave = true
	_, err = s.Apply(ctx, func(st *game.State, cfg game.Config) error {
		st.Start(cfg)
		return nil
	})
	require.Error(t, err)
	assert.False(t, s.Snapshot().IsRunning, "unpersisted state must not be visible")
}

func TestCountdownTicks(t *testing.T) {
	r, store, _, clock := testRegistry(t, game.State{})
	ctx := context.Background()

	s, err := r.Get(ctx, "g1")
	require.NoError(t, err)

	_, err = s.Apply(ctx, func(st *game.State, cfg game.Config) error {
		st.Start(cfg)
		return nil
	})
	require.NoError(t, err)

	clock.BlockUntil(1)
	clock.Advance(time.Second)

	require.Eventually(t, func() bool {
		return s.Snapshot().TimeRemaining == 15*60-1
	}, time.Second, time.Millisecond, "one tick should take one second off")

	clock.BlockUntil(1)
	clock.Advance(time.Second)

	require.Eventually(t, func() bool {
		return store.saved("g1").TimeRemaining == 15*60-2
	}, time.Second, time.Millisecond, "every tick is persisted")
}

func TestCountdownStopsAtZero(t *testing.T) {
	r, _, _, clock := testRegistry(t, game.State{})
	ctx := context.Background()

	s, err := r.Get(ctx, "g1")
	require.NoError(t, err)

	_, err = s.Apply(ctx, func(st *game.State, cfg game.Config) error {
		st.IsRunning = true
		st.TimeRemaining = 1
		return nil
	})
	require.NoError(t, err)

	clock.BlockUntil(1)
	clock.Advance(time.Second)

	require.Eventually(t, func() bool {
		return s.Snapshot().TimeRemaining == 0
	}, time.Second, time.Millisecond)

	st := s.Snapshot()
	assert.True(t, st.IsRunning, "hitting zero does not flip the running flag")
}

func TestPauseStopsCountdown(t *testing.T) {
	r, store, _, clock := testRegistry(t, game.State{})
	ctx := context.Background()

	s, err := r.Get(ctx, "g1")
	require.NoError(t, err)

	_, err = s.Apply(ctx, func(st *game.State, cfg game.Config) error {
		st.Start(cfg)
		return nil
	})
	require.NoError(t, err)
	clock.BlockUntil(1)

	_, err = s.Apply(ctx, func(st *game.State, cfg game.Config) error {
		st.Pause()
		return nil
	})
	require.NoError(t, err)

	saves := store.saves
	clock.Advance(5 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, saves, store.saves, "a paused game must not tick")
	assert.Equal(t, 15*60, s.Snapshot().TimeRemaining)
}

func TestSnapshotsBroadcastInCommitOrder(t *testing.T) {
	r, _, broker, _ := testRegistry(t, game.State{})
	ctx := context.Background()

	s, err := r.Get(ctx, "g1")
	require.NoError(t, err)

	ch := broker.Subscribe("g1")
	defer broker.Unsubscribe("g1", ch)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Apply(ctx, func(st *game.State, _ game.Config) error {
				st.AddTime(1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Every subscriber must see the snapshots in the order they were
	// committed, never a newer state followed by an older one.
	last := -1
	for i := 0; i < workers; i++ {
		select {
		case data := <-ch:
			var ev Event
			require.NoError(t, json.Unmarshal(data, &ev))
			require.NotNil(t, ev.State)
			assert.Greater(t, ev.State.TimeRemaining, last)
			last = ev.State.TimeRemaining
		case <-time.After(time.Second):
			t.Fatalf("event %d never arrived", i)
		}
	}
	assert.Equal(t, workers*60, last)
}

func TestRegistryReturnsSameSession(t *testing.T) {
	r, _, _, _ := testRegistry(t, game.State{})
	ctx := context.Background()

	a, err := r.Get(ctx, "g1")
	require.NoError(t, err)
	b, err := r.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = r.Get(ctx, "unknown")
	assert.Error(t, err)
}
