package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fldgames/gamemaster/internal/game"
	"github.com/fldgames/gamemaster/internal/session"
)

// Control actions the console can send. Toggles are idempotent per press;
// round transitions validate against the config at apply time.
const (
	ActionStart                = "start"
	ActionPause                = "pause"
	ActionResume               = "resume"
	ActionNextRound            = "next_round"
	ActionAddTime              = "add_time"
	ActionToggleTeamQuiz       = "toggle_team_quiz"
	ActionToggleIndividualQuiz = "toggle_individual_quiz"
	ActionToggleScores         = "toggle_scores"
	ActionEnd                  = "end"
	ActionSetPauseVideo        = "set_pause_video"
)

type ControlRequest struct {
	Action  string `json:"action"`
	Minutes int    `json:"minutes,omitempty"`
	URL     string `json:"url,omitempty"`
}

func handleMasterControl(sessions *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var req ControlRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mutate, err := controlMutation(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s, err := sessions.Get(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		st, err := s.Apply(r.Context(), mutate)
		if errors.Is(err, game.ErrLastRound) {
			writeError(w, http.StatusConflict, "already at the last round")
			return
		}
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func controlMutation(req ControlRequest) (func(st *game.State, cfg game.Config) error, error) {
	switch req.Action {
	case ActionStart:
		return func(st *game.State, cfg game.Config) error {
			st.Start(cfg)
			return nil
		}, nil
	case ActionPause:
		return func(st *game.State, cfg game.Config) error {
			st.Pause()
			return nil
		}, nil
	case ActionResume:
		return func(st *game.State, cfg game.Config) error {
			st.Resume()
			return nil
		}, nil
	case ActionNextRound:
		return func(st *game.State, cfg game.Config) error {
			return st.NextRound(cfg)
		}, nil
	case ActionAddTime:
		if req.Minutes <= 0 {
			return nil, errors.New("minutes must be positive")
		}
		minutes := req.Minutes
		return func(st *game.State, cfg game.Config) error {
			st.AddTime(minutes)
			return nil
		}, nil
	case ActionToggleTeamQuiz:
		return func(st *game.State, cfg game.Config) error {
			st.ToggleTeamQuiz()
			return nil
		}, nil
	case ActionToggleIndividualQuiz:
		return func(st *game.State, cfg game.Config) error {
			st.ToggleIndividualQuiz()
			return nil
		}, nil
	case ActionToggleScores:
		return func(st *game.State, cfg game.Config) error {
			st.ToggleScores()
			return nil
		}, nil
	case ActionEnd:
		return func(st *game.State, cfg game.Config) error {
			st.End()
			return nil
		}, nil
	case ActionSetPauseVideo:
		url := strings.TrimSpace(req.URL)
		return func(st *game.State, cfg game.Config) error {
			st.PauseVideoURL = url
			return nil
		}, nil
	default:
		return nil, errors.New("unknown action")
	}
}
