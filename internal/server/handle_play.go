package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fldgames/gamemaster/internal/game"
)

// JoinTeam is the team picker row shown right after entering a code.
type JoinTeam struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// JoinResponse resolves a join code to a game and its teams.
type JoinResponse struct {
	GameID   string        `json:"gameId"`
	Name     string        `json:"name"`
	Branding game.Branding `json:"branding"`
	Teams    []JoinTeam    `json:"teams"`
}

func handleJoinByCode(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := game.NormalizeJoinCode(chi.URLParam(r, "code"))
		if code == "" {
			writeError(w, http.StatusBadRequest, "join code is required")
			return
		}

		g, err := store.GameByCode(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no game with that code")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		teams := make([]JoinTeam, 0, len(g.Config.Teams))
		for _, t := range g.Config.Teams {
			teams = append(teams, JoinTeam{ID: t.ID, Name: t.Name, Color: t.Color})
		}
		writeJSON(w, http.StatusOK, JoinResponse{
			GameID:   g.ID,
			Name:     g.Name,
			Branding: g.Branding,
			Teams:    teams,
		})
	}
}
