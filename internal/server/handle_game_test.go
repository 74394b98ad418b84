package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/fldgames/gamemaster/internal/database"
	"github.com/fldgames/gamemaster/internal/game"
	"github.com/fldgames/gamemaster/internal/migrations"
	"github.com/fldgames/gamemaster/internal/session"
)

type testEnv struct {
	router   *chi.Mux
	store    *SQLiteStore
	sessions *session.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewSQLiteStore(db)
	broker := session.NewBroker()
	sessions := session.NewRegistry(store, broker, clockwork.NewFakeClock(), logger)
	t.Cleanup(sessions.Close)

	r := chi.NewRouter()
	addRoutes(r, logger, db, store, sessions, broker, "http://fld.test", "")

	return &testEnv{router: r, store: store, sessions: sessions}
}

// seedGame creates a game with two teams, two stations, rotated routes,
// and a two-question team quiz plus a one-question individual quiz.
func seedGame(t *testing.T, env *testEnv) Game {
	t.Helper()
	ctx := context.Background()

	cfg := game.DefaultConfig("Office Day")
	cfg.Stations = []game.Station{
		{ID: "s1", Name: "Lobby", Type: game.StationManned, Location: "Ground floor"},
		{ID: "s2", Name: "Archive", Type: game.StationTask, TaskAnswer: "42"},
	}
	cfg.Teams = []game.Team{
		{ID: "t1", Name: "Red", Color: "#f00", Score: 10},
		{ID: "t2", Name: "Blue", Color: "#00f", Score: 20},
	}
	cfg.Routes = game.GenerateRoutes(cfg.Stations, cfg.Teams)

	g, err := env.store.CreateGame(ctx, cfg.GameName, "FLD-TEST01", cfg, game.DefaultBranding())
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	teamQuiz := []game.QuizQuestion{
		{ID: "q1", Question: "Capital of the Netherlands?", Type: game.QuestionOpen, CorrectAnswer: "Amsterdam", Points: 2},
		{ID: "q2", Question: "Pick A", Type: game.QuestionMultipleChoice, Options: []string{"A", "B"}, CorrectAnswer: "A", Points: 1},
	}
	if err := env.store.SaveTeamQuiz(ctx, g.ID, teamQuiz); err != nil {
		t.Fatalf("save team quiz: %v", err)
	}
	indQuiz := []game.QuizQuestion{
		{ID: "i1", Question: "2+2?", Type: game.QuestionOpen, CorrectAnswer: "4", Points: 1},
	}
	if err := env.store.SaveIndividualQuiz(ctx, g.ID, indQuiz); err != nil {
		t.Fatalf("save individual quiz: %v", err)
	}
	return g
}

func (env *testEnv) setState(t *testing.T, gameID string, mutate func(st *game.State)) {
	t.Helper()
	ctx := context.Background()
	st, err := env.store.GameState(ctx, gameID)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	mutate(&st)
	if err := env.store.SaveGameState(ctx, gameID, st); err != nil {
		t.Fatalf("save state: %v", err)
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestJoinByCode(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)

	// Lower case with whitespace still resolves.
	w := env.do(t, http.MethodGet, "/api/play/fld-test01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[JoinResponse](t, w)
	if resp.GameID != g.ID {
		t.Errorf("expected game %s, got %s", g.ID, resp.GameID)
	}
	if len(resp.Teams) != 2 || resp.Teams[0].Name != "Red" {
		t.Errorf("unexpected teams: %+v", resp.Teams)
	}
}

func TestJoinByCodeNotFound(t *testing.T) {
	env := newTestEnv(t)
	seedGame(t, env)

	w := env.do(t, http.MethodGet, "/api/play/FLD-NOPE99", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGameStateIsSanitized(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)
	env.setState(t, g.ID, func(st *game.State) {
		st.TeamQuizUnlocked = true
	})

	w := env.do(t, http.MethodGet, "/api/games/"+g.ID+"/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[StateResponse](t, w)
	for _, s := range resp.Config.Stations {
		if s.TaskAnswer != "" {
			t.Errorf("station %s leaked task answer", s.ID)
		}
	}
	if len(resp.TeamQuiz) != 2 {
		t.Fatalf("expected unlocked team quiz, got %d questions", len(resp.TeamQuiz))
	}
	for _, q := range resp.TeamQuiz {
		if q.CorrectAnswer != "" {
			t.Errorf("question %s leaked correct answer", q.ID)
		}
	}
	if resp.IndividualQuiz != nil {
		t.Errorf("individual quiz should stay hidden while locked")
	}
	if resp.Leaderboard != nil {
		t.Errorf("leaderboard should stay hidden until scores are revealed")
	}
}

func TestGameStatePositions(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)

	w := env.do(t, http.MethodGet, "/api/games/"+g.ID+"/state", nil)
	resp := decode[StateResponse](t, w)

	if len(resp.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(resp.Positions))
	}
	// Round 0: team t1 at s1, team t2 at s2.
	seen := map[string]string{}
	for _, p := range resp.Positions {
		seen[p.TeamID] = p.StationID
	}
	if seen["t1"] != "s1" || seen["t2"] != "s2" {
		t.Errorf("unexpected positions: %v", seen)
	}
}

func TestGameStateRevealsLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)
	env.setState(t, g.ID, func(st *game.State) {
		st.ScoresRevealed = true
	})

	w := env.do(t, http.MethodGet, "/api/games/"+g.ID+"/state", nil)
	resp := decode[StateResponse](t, w)

	if resp.Leaderboard == nil {
		t.Fatal("expected leaderboard once scores are revealed")
	}
	if len(resp.Leaderboard.Teams) != 2 {
		t.Fatalf("expected 2 teams on the board, got %d", len(resp.Leaderboard.Teams))
	}
	if resp.Leaderboard.Teams[0].TeamID != "t2" {
		t.Errorf("expected Blue (base 20) first, got %s", resp.Leaderboard.Teams[0].TeamID)
	}
}

func TestTeamSubmissionGradedServerSide(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)
	env.setState(t, g.ID, func(st *game.State) {
		st.TeamQuizUnlocked = true
	})

	w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/team-submission", TeamSubmissionRequest{
		TeamID:  "t1",
		Answers: []string{" amsterdam ", "B"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	result := decode[SubmissionResult](t, w)
	if result.Score != 2 {
		t.Errorf("expected score 2 (open trimmed case-insensitive, choice wrong), got %d", result.Score)
	}
	if result.MaxScore != 3 {
		t.Errorf("expected max score 3, got %d", result.MaxScore)
	}
}

func TestTeamSubmissionOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)
	env.setState(t, g.ID, func(st *game.State) {
		st.TeamQuizUnlocked = true
	})

	body := TeamSubmissionRequest{TeamID: "t1", Answers: []string{"Amsterdam", "A"}}
	if w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/team-submission", body); w.Code != http.StatusCreated {
		t.Fatalf("first submission: expected 201, got %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/team-submission", body); w.Code != http.StatusConflict {
		t.Fatalf("second submission: expected 409, got %d", w.Code)
	}
}

func TestTeamSubmissionRequiresUnlock(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)

	w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/team-submission", TeamSubmissionRequest{
		TeamID:  "t1",
		Answers: []string{"Amsterdam", "A"},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while locked, got %d", w.Code)
	}
}

func TestTeamSubmissionRequiresCompleteAnswers(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)
	env.setState(t, g.ID, func(st *game.State) {
		st.TeamQuizUnlocked = true
	})

	w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/team-submission", TeamSubmissionRequest{
		TeamID:  "t1",
		Answers: []string{"Amsterdam", "  "},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank answer, got %d", w.Code)
	}
}

func TestIndividualSubmissionOncePerPlayer(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)
	env.setState(t, g.ID, func(st *game.State) {
		st.IndividualQuizUnlocked = true
	})

	body := IndividualSubmissionRequest{TeamID: "t1", PlayerName: "Maria", Answers: []string{"4"}}
	w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/individual-submissions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	result := decode[SubmissionResult](t, w)
	if result.Score != 1 {
		t.Errorf("expected score 1, got %d", result.Score)
	}

	if w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/individual-submissions", body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate player: expected 409, got %d", w.Code)
	}
}

func TestIndividualSubmissionUnknownTeam(t *testing.T) {
	env := newTestEnv(t)
	g := seedGame(t, env)
	env.setState(t, g.ID, func(st *game.State) {
		st.IndividualQuizUnlocked = true
	})

	w := env.do(t, http.MethodPost, "/api/games/"+g.ID+"/individual-submissions", IndividualSubmissionRequest{
		TeamID: "nope", PlayerName: "Maria", Answers: []string{"4"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown team, got %d", w.Code)
	}
}
