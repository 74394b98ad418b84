package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fldgames/gamemaster/internal/game"
	"github.com/fldgames/gamemaster/internal/session"
)

type TeamSubmissionRequest struct {
	TeamID  string   `json:"teamId"`
	Answers []string `json:"answers"`
}

type IndividualSubmissionRequest struct {
	TeamID     string   `json:"teamId"`
	PlayerName string   `json:"playerName"`
	Answers    []string `json:"answers"`
}

// SubmissionResult is what a player sees after submitting: the graded
// score, never the per-question verdicts.
type SubmissionResult struct {
	Score    int `json:"score"`
	MaxScore int `json:"maxScore"`
}

// handleTeamSubmission grades and files the one team-quiz submission a
// team gets. Grading happens here against the stored answers; the request
// carries raw answers only.
func handleTeamSubmission(store Store, sessions *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var req TeamSubmissionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		g, err := store.GameByID(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if _, ok := g.Config.TeamFor(req.TeamID); !ok {
			writeError(w, http.StatusBadRequest, "unknown team")
			return
		}

		s, err := sessions.Get(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		st := s.Snapshot()
		if !st.TeamQuizUnlocked || st.GameEnded {
			writeError(w, http.StatusConflict, "team quiz is not open")
			return
		}

		questions, err := store.TeamQuiz(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if len(questions) == 0 {
			writeError(w, http.StatusConflict, "team quiz is not open")
			return
		}
		if !game.AnswersComplete(questions, req.Answers) {
			writeError(w, http.StatusBadRequest, "every question needs an answer")
			return
		}

		existing, err := store.TeamSubmission(r.Context(), gameID, req.TeamID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err == nil && existing.Submitted {
			writeError(w, http.StatusConflict, "team quiz already submitted")
			return
		}

		sub := game.TeamSubmission{
			TeamID:    req.TeamID,
			Answers:   req.Answers,
			Score:     game.Score(questions, req.Answers),
			Submitted: true,
		}
		if err := store.SaveTeamSubmission(r.Context(), gameID, sub); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.Notify(session.Event{Type: session.EventTeamSubmitted, TeamID: req.TeamID})
		writeJSON(w, http.StatusCreated, SubmissionResult{
			Score:    sub.Score,
			MaxScore: game.MaxScore(questions),
		})
	}
}

// handleIndividualSubmission files one player's individual-quiz answers.
// A player name submits once per game; a repeat is rejected rather than
// overwritten.
func handleIndividualSubmission(store Store, sessions *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var req IndividualSubmissionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "player name is required")
			return
		}

		g, err := store.GameByID(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if _, ok := g.Config.TeamFor(req.TeamID); !ok {
			writeError(w, http.StatusBadRequest, "unknown team")
			return
		}

		s, err := sessions.Get(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		st := s.Snapshot()
		if !st.IndividualQuizUnlocked || st.GameEnded {
			writeError(w, http.StatusConflict, "individual quiz is not open")
			return
		}

		questions, err := store.IndividualQuiz(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if len(questions) == 0 {
			writeError(w, http.StatusConflict, "individual quiz is not open")
			return
		}

		sub := game.IndividualSubmission{
			TeamID:     req.TeamID,
			PlayerName: req.PlayerName,
			Answers:    req.Answers,
			Score:      game.Score(questions, req.Answers),
		}
		if _, err := store.CreateIndividualSubmission(r.Context(), gameID, sub); err != nil {
			if errors.Is(err, ErrDuplicate) {
				writeError(w, http.StatusConflict, "this player already submitted")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.Notify(session.Event{Type: session.EventPlayerSubmitted, TeamID: req.TeamID, PlayerName: req.PlayerName})
		writeJSON(w, http.StatusCreated, SubmissionResult{
			Score:    sub.Score,
			MaxScore: game.MaxScore(questions),
		})
	}
}
