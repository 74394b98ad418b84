package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/fldgames/gamemaster/internal/session"
)

// handleWS streams the same events as the SSE endpoint over a websocket,
// one JSON event per text frame. Client frames are ignored; all mutations
// go through the HTTP API.
func handleWS(logger *slog.Logger, sessions *session.Registry, broker *session.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		s, err := sessions.Get(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()

		// Drain client frames so pings and close frames are processed.
		go func() {
			for {
				if _, _, err := conn.Read(ctx); err != nil {
					return
				}
			}
		}()

		ch := broker.Subscribe(gameID)
		defer broker.Unsubscribe(gameID, ch)

		st := s.Snapshot()
		initial, _ := json.Marshal(session.Event{Type: session.EventState, GameID: gameID, State: &st})
		if err := conn.Write(ctx, websocket.MessageText, initial); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "game_id", gameID, "error", err)
					return
				}
			}
		}
	}
}
