package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fldgames/gamemaster/internal/game"
	"github.com/fldgames/gamemaster/internal/session"
)

func handleMasterUpdateConfig(store Store, sessions *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var cfg game.Config
		if err := readJSON(r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if cfg.NumTeams < 0 || cfg.StationDuration < 0 || cfg.PauseDuration < 0 {
			writeError(w, http.StatusBadRequest, "durations and counts must not be negative")
			return
		}
		if cfg.Routes == nil {
			cfg.Routes = map[string][]string{}
		}

		err := store.UpdateConfig(r.Context(), gameID, cfg)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		notify(r.Context(), sessions, gameID, session.Event{Type: session.EventConfigUpdated})
		writeJSON(w, http.StatusOK, cfg)
	}
}

func handleMasterUpdateBranding(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var b game.Branding
		if err := readJSON(r, &b); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := store.UpdateBranding(r.Context(), gameID, b)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// handleMasterSaveQuiz covers both quizzes; save picks the table.
func handleMasterSaveQuiz(sessions *session.Registry, save func(context.Context, string, []game.QuizQuestion) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var questions []game.QuizQuestion
		if err := readJSON(r, &questions); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		for i := range questions {
			if questions[i].ID == "" {
				questions[i].ID = uuid.NewString()
			}
			if questions[i].Points <= 0 {
				questions[i].Points = 1
			}
		}

		err := save(r.Context(), gameID, questions)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		notify(r.Context(), sessions, gameID, session.Event{Type: session.EventQuizUpdated})
		writeJSON(w, http.StatusOK, questions)
	}
}

// handleMasterGenerateRoutes rebuilds the rotation so no two teams share a
// station in any round, and stores it in the config.
func handleMasterGenerateRoutes(store Store, sessions *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		g, err := store.GameByID(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if len(g.Config.Stations) == 0 || len(g.Config.Teams) == 0 {
			writeError(w, http.StatusBadRequest, "configure stations and teams before generating routes")
			return
		}

		g.Config.Routes = game.GenerateRoutes(g.Config.Stations, g.Config.Teams)
		if err := store.UpdateConfig(r.Context(), gameID, g.Config); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		notify(r.Context(), sessions, gameID, session.Event{Type: session.EventConfigUpdated})
		writeJSON(w, http.StatusOK, g.Config.Routes)
	}
}

// notify broadcasts a non-state event through the game's session. Best
// effort: a game whose session cannot load simply has no listeners.
func notify(ctx context.Context, sessions *session.Registry, gameID string, event session.Event) {
	s, err := sessions.Get(ctx, gameID)
	if err != nil {
		return
	}
	s.Notify(event)
}
