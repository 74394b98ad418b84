package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fldgames/gamemaster/internal/game"
	"github.com/fldgames/gamemaster/internal/session"
)

// PlayerConfig is the config blob with answers stripped: players see
// stations and teams but never a task answer.
type PlayerConfig struct {
	GameName        string              `json:"gameName"`
	NumStations     int                 `json:"numStations"`
	NumTeams        int                 `json:"numTeams"`
	StationDuration int                 `json:"stationDuration"`
	PauseDuration   int                 `json:"pauseDuration"`
	PauseAfterRound int                 `json:"pauseAfterRound"`
	Stations        []game.Station      `json:"stations"`
	Teams           []game.Team         `json:"teams"`
	Routes          map[string][]string `json:"routes"`
}

// TeamPosition points one team at its station for the current round.
type TeamPosition struct {
	TeamID      string `json:"teamId"`
	StationID   string `json:"stationId,omitempty"`
	StationName string `json:"stationName,omitempty"`
	Location    string `json:"location,omitempty"`
	MapURL      string `json:"mapUrl,omitempty"`
	OnBreak     bool   `json:"onBreak"`
}

// SubmissionStatus tells a team view whether its quiz is already in.
type SubmissionStatus struct {
	Submitted bool `json:"submitted"`
	Score     int  `json:"score"`
	MaxScore  int  `json:"maxScore"`
}

// StateResponse is the whole player/spectator view in one fetch: quizzes
// appear only while unlocked and leaderboards only once scores are
// revealed, so a client cannot read ahead of the master.
type StateResponse struct {
	GameID         string                      `json:"gameId"`
	Name           string                      `json:"name"`
	Branding       game.Branding               `json:"branding"`
	Config         PlayerConfig                `json:"config"`
	State          game.State                  `json:"state"`
	Positions      []TeamPosition              `json:"positions"`
	TeamQuiz       []game.QuizQuestion         `json:"teamQuiz,omitempty"`
	IndividualQuiz []game.QuizQuestion         `json:"individualQuiz,omitempty"`
	Submissions    map[string]SubmissionStatus `json:"submissions"`
	Leaderboard    *LeaderboardResponse        `json:"leaderboard,omitempty"`
}

func handleGameState(store Store, sessions *session.Registry) http.HandlerFunc {
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

		s, err := sessions.Get(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		st := s.Snapshot()

		resp := StateResponse{
			GameID:      g.ID,
			Name:        g.Name,
			Branding:    g.Branding,
			Config:      sanitizeConfig(g.Config),
			State:       st,
			Positions:   teamPositions(g.Config, st.CurrentRound),
			Submissions: map[string]SubmissionStatus{},
		}

		if st.TeamQuizUnlocked {
			questions, err := store.TeamQuiz(r.Context(), gameID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			resp.TeamQuiz = sanitizeQuestions(questions)

			subs, err := store.TeamSubmissions(r.Context(), gameID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			maxScore := game.MaxScore(questions)
			for teamID, sub := range subs {
				if !sub.Submitted {
					continue
				}
				resp.Submissions[teamID] = SubmissionStatus{
					Submitted: true,
					Score:     sub.Score,
					MaxScore:  maxScore,
				}
			}
		}
		if st.IndividualQuizUnlocked {
			questions, err := store.IndividualQuiz(r.Context(), gameID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			resp.IndividualQuiz = sanitizeQuestions(questions)
		}
		if st.ScoresRevealed {
			board, err := buildLeaderboard(r, store, g)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			resp.Leaderboard = &board
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func sanitizeConfig(cfg game.Config) PlayerConfig {
	stations := make([]game.Station, len(cfg.Stations))
	for i, s := range cfg.Stations {
		s.TaskAnswer = ""
		stations[i] = s
	}
	return PlayerConfig{
		GameName:        cfg.GameName,
		NumStations:     cfg.NumStations,
		NumTeams:        cfg.NumTeams,
		StationDuration: cfg.StationDuration,
		PauseDuration:   cfg.PauseDuration,
		PauseAfterRound: cfg.PauseAfterRound,
		Stations:        stations,
		Teams:           cfg.Teams,
		Routes:          cfg.Routes,
	}
}

// sanitizeQuestions strips correct answers before a quiz leaves the server.
func sanitizeQuestions(questions []game.QuizQuestion) []game.QuizQuestion {
	out := make([]game.QuizQuestion, len(questions))
	for i, q := range questions {
		q.CorrectAnswer = ""
		out[i] = q
	}
	return out
}

func teamPositions(cfg game.Config, round int) []TeamPosition {
	positions := make([]TeamPosition, 0, len(cfg.Teams))
	for _, t := range cfg.Teams {
		pos := TeamPosition{TeamID: t.ID}
		if station, ok := game.CurrentStation(cfg, t.ID, round); ok {
			pos.StationID = station.ID
			pos.StationName = station.Name
			pos.Location = station.Location
			pos.MapURL = station.MapURL
		} else {
			pos.OnBreak = true
		}
		positions = append(positions, pos)
	}
	return positions
}
