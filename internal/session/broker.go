// Package session owns the live state of running games. Every mutation of
// a game's replicated state funnels through one Session, which persists
// the new state and fans a snapshot out to all subscribed clients.
package session

import (
	"encoding/json"
	"sync"

	"github.com/fldgames/gamemaster/internal/game"
)

// Event types published to game subscribers.
const (
	EventState           = "state"
	EventTeamSubmitted   = "team_submitted"
	EventPlayerSubmitted = "player_submitted"
	EventConfigUpdated   = "config_updated"
	EventQuizUpdated     = "quiz_updated"
)

// Event is the payload pushed to every viewer of a game. State carries the
// full authoritative snapshot, so clients replace rather than merge.
type Event struct {
	Type       string      `json:"type"`
	GameID     string      `json:"gameId"`
	State      *game.State `json:"state,omitempty"`
	TeamID     string      `json:"teamId,omitempty"`
	PlayerName string      `json:"playerName,omitempty"`
}

// Broker is an in-process pub/sub for game events, keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving JSON-encoded events for the game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given game.
func (b *Broker) Publish(gameID string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
