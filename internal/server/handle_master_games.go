package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fldgames/gamemaster/internal/game"
	"github.com/fldgames/gamemaster/internal/session"
)

type CreateGameRequest struct {
	Name string `json:"name"`
}

// GameDetail is the full console view of one game: blobs, quizzes, and
// the current replicated state.
type GameDetail struct {
	Game
	TeamQuiz       []game.QuizQuestion `json:"teamQuiz"`
	IndividualQuiz []game.QuizQuestion `json:"individualQuiz"`
	State          game.State          `json:"state"`
}

// SubmissionsResponse bundles both submission sets for the console.
type SubmissionsResponse struct {
	TeamSubmissions       map[string]game.TeamSubmission `json:"teamSubmissions"`
	IndividualSubmissions []game.IndividualSubmission    `json:"individualSubmissions"`
}

// LeaderboardResponse carries both ranked boards.
type LeaderboardResponse struct {
	Teams       []game.TeamStanding       `json:"teams"`
	Individuals []game.IndividualStanding `json:"individuals"`
}

func handleMasterListGames(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := store.ListGames(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if games == nil {
			games = []GameSummary{}
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func handleMasterCreateGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		created, err := createGameWithCode(r, store, req.Name, game.DefaultConfig(req.Name), game.DefaultBranding())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// createGameWithCode mints a join code and inserts the game, retrying on
// the (astronomically unlikely) code collision.
func createGameWithCode(r *http.Request, store Store, name string, cfg game.Config, branding game.Branding) (Game, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		created, err := store.CreateGame(r.Context(), name, game.NewJoinCode(), cfg, branding)
		if errors.Is(err, ErrDuplicate) {
			lastErr = err
			continue
		}
		return created, err
	}
	return Game{}, lastErr
}

func handleMasterGetGame(store Store) http.HandlerFunc {
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

		detail := GameDetail{Game: g}
		if detail.TeamQuiz, err = store.TeamQuiz(r.Context(), gameID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if detail.IndividualQuiz, err = store.IndividualQuiz(r.Context(), gameID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if detail.State, err = store.GameState(r.Context(), gameID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func handleMasterDeleteGame(store Store, sessions *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		err := store.DeleteGame(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		sessions.Remove(gameID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleMasterSubmissions(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		teamSubs, err := store.TeamSubmissions(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		indSubs, err := store.IndividualSubmissions(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if indSubs == nil {
			indSubs = []game.IndividualSubmission{}
		}
		writeJSON(w, http.StatusOK, SubmissionsResponse{
			TeamSubmissions:       teamSubs,
			IndividualSubmissions: indSubs,
		})
	}
}

// handleMasterLeaderboard always ranks; the console sees scores before
// they are revealed to players.
func handleMasterLeaderboard(store Store) http.HandlerFunc {
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

		board, err := buildLeaderboard(r, store, g)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func buildLeaderboard(r *http.Request, store Store, g Game) (LeaderboardResponse, error) {
	teamSubs, err := store.TeamSubmissions(r.Context(), g.ID)
	if err != nil {
		return LeaderboardResponse{}, err
	}
	indSubs, err := store.IndividualSubmissions(r.Context(), g.ID)
	if err != nil {
		return LeaderboardResponse{}, err
	}
	return LeaderboardResponse{
		Teams:       game.TeamStandings(g.Config, teamSubs),
		Individuals: game.IndividualStandings(g.Config, indSubs),
	}, nil
}
