package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fldgames/gamemaster/internal/game"
)

// SQLiteStore persists games in the schema applied by internal/migrations.
// Nested blobs (config, branding, questions, answers) are stored as JSON.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateGame(ctx context.Context, name, code string, cfg game.Config, branding game.Branding) (Game, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return Game{}, fmt.Errorf("encoding config: %w", err)
	}
	brandingJSON, err := json.Marshal(branding)
	if err != nil {
		return Game{}, fmt.Errorf("encoding branding: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Game{}, err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	var createdAt, updatedAt string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO games (id, name, code, config, branding)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at, updated_at
	`, id, name, code, string(configJSON), string(brandingJSON)).Scan(&createdAt, &updatedAt)
	if isUniqueViolation(err) {
		return Game{}, ErrDuplicate
	}
	if err != nil {
		return Game{}, err
	}

	// A fresh game starts with empty quizzes and an idle state row so the
	// first state read and the first unlock toggle never hit a missing row.
	for _, q := range []string{
		`INSERT INTO team_quizzes (id, game_id) VALUES (?, ?)`,
		`INSERT INTO individual_quizzes (id, game_id) VALUES (?, ?)`,
		`INSERT INTO game_state (id, game_id) VALUES (?, ?)`,
	} {
		if _, err := tx.ExecContext(ctx, q, uuid.NewString(), id); err != nil {
			return Game{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Game{}, err
	}

	return Game{
		ID:        id,
		Name:      name,
		Code:      code,
		Config:    cfg,
		Branding:  branding,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (s *SQLiteStore) GameByID(ctx context.Context, id string) (Game, error) {
	return s.gameWhere(ctx, `id = ?`, id)
}

func (s *SQLiteStore) GameByCode(ctx context.Context, code string) (Game, error) {
	return s.gameWhere(ctx, `code = ?`, code)
}

func (s *SQLiteStore) gameWhere(ctx context.Context, cond string, arg any) (Game, error) {
	var g Game
	var configJSON, brandingJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, config, branding, created_at, updated_at
		FROM games WHERE `+cond,
		arg).Scan(&g.ID, &g.Name, &g.Code, &configJSON, &brandingJSON, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrNotFound
	}
	if err != nil {
		return g, err
	}
	if err := json.Unmarshal([]byte(configJSON), &g.Config); err != nil {
		return g, fmt.Errorf("decoding config: %w", err)
	}
	if err := json.Unmarshal([]byte(brandingJSON), &g.Branding); err != nil {
		return g, fmt.Errorf("decoding branding: %w", err)
	}
	if g.Config.Routes == nil {
		g.Config.Routes = map[string][]string{}
	}
	return g, nil
}

// GameConfig satisfies session.Store: sessions reload the config on every
// applied transition so setup saves take effect immediately.
func (s *SQLiteStore) GameConfig(ctx context.Context, gameID string) (game.Config, error) {
	g, err := s.GameByID(ctx, gameID)
	if err != nil {
		return game.Config{}, err
	}
	return g.Config, nil
}

func (s *SQLiteStore) ListGames(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, config, created_at
		FROM games
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		var g GameSummary
		var configJSON string
		if err := rows.Scan(&g.ID, &g.Name, &g.Code, &configJSON, &g.CreatedAt); err != nil {
			return nil, err
		}
		var cfg game.Config
		if err := json.Unmarshal([]byte(configJSON), &cfg); err == nil {
			g.NumTeams = len(cfg.Teams)
			g.NumStations = len(cfg.Stations)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdateConfig(ctx context.Context, id string, cfg game.Config) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return s.updateGameColumn(ctx, id, `config`, string(configJSON), cfg.GameName)
}

func (s *SQLiteStore) UpdateBranding(ctx context.Context, id string, b game.Branding) error {
	brandingJSON, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding branding: %w", err)
	}
	return s.updateGameColumn(ctx, id, `branding`, string(brandingJSON), "")
}

func (s *SQLiteStore) updateGameColumn(ctx context.Context, id, column, value, newName string) error {
	q := `UPDATE games SET ` + column + ` = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now') WHERE id = ?`
	args := []any{value, id}
	if newName != "" {
		q = `UPDATE games SET ` + column + ` = ?, name = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now') WHERE id = ?`
		args = []any{value, newName, id}
	}
	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) TeamQuiz(ctx context.Context, gameID string) ([]game.QuizQuestion, error) {
	return s.quiz(ctx, `team_quizzes`, gameID)
}

func (s *SQLiteStore) IndividualQuiz(ctx context.Context, gameID string) ([]game.QuizQuestion, error) {
	return s.quiz(ctx, `individual_quizzes`, gameID)
}

func (s *SQLiteStore) quiz(ctx context.Context, table, gameID string) ([]game.QuizQuestion, error) {
	var questionsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT questions FROM `+table+` WHERE game_id = ?`, gameID).Scan(&questionsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return []game.QuizQuestion{}, nil
	}
	if err != nil {
		return nil, err
	}
	questions := []game.QuizQuestion{}
	if err := json.Unmarshal([]byte(questionsJSON), &questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	return questions, nil
}

func (s *SQLiteStore) SaveTeamQuiz(ctx context.Context, gameID string, questions []game.QuizQuestion) error {
	return s.saveQuiz(ctx, `team_quizzes`, gameID, questions)
}

func (s *SQLiteStore) SaveIndividualQuiz(ctx context.Context, gameID string, questions []game.QuizQuestion) error {
	return s.saveQuiz(ctx, `individual_quizzes`, gameID, questions)
}

func (s *SQLiteStore) saveQuiz(ctx context.Context, table, gameID string, questions []game.QuizQuestion) error {
	if questions == nil {
		questions = []game.QuizQuestion{}
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+table+` (id, game_id, questions)
		VALUES (?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET questions = excluded.questions
	`, uuid.NewString(), gameID, string(questionsJSON))
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

func (s *SQLiteStore) GameState(ctx context.Context, gameID string) (game.State, error) {
	var st game.State
	err := s.db.QueryRowContext(ctx, `
		SELECT is_running, current_round, time_remaining, is_paused,
			team_quiz_unlocked, individual_quiz_unlocked, scores_revealed,
			game_ended, pause_video_url
		FROM game_state WHERE game_id = ?
	`, gameID).Scan(&st.IsRunning, &st.CurrentRound, &st.TimeRemaining, &st.IsPaused,
		&st.TeamQuizUnlocked, &st.IndividualQuizUnlocked, &st.ScoresRevealed,
		&st.GameEnded, &st.PauseVideoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return st, ErrNotFound
	}
	return st, err
}

func (s *SQLiteStore) SaveGameState(ctx context.Context, gameID string, st game.State) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_state (id, game_id, is_running, current_round, time_remaining,
			is_paused, team_quiz_unlocked, individual_quiz_unlocked, scores_revealed,
			game_ended, pause_video_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			is_running = excluded.is_running,
			current_round = excluded.current_round,
			time_remaining = excluded.time_remaining,
			is_paused = excluded.is_paused,
			team_quiz_unlocked = excluded.team_quiz_unlocked,
			individual_quiz_unlocked = excluded.individual_quiz_unlocked,
			scores_revealed = excluded.scores_revealed,
			game_ended = excluded.game_ended,
			pause_video_url = excluded.pause_video_url,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, uuid.NewString(), gameID, st.IsRunning, st.CurrentRound, st.TimeRemaining,
		st.IsPaused, st.TeamQuizUnlocked, st.IndividualQuizUnlocked, st.ScoresRevealed,
		st.GameEnded, st.PauseVideoURL)
	return err
}

func (s *SQLiteStore) TeamSubmissions(ctx context.Context, gameID string) (map[string]game.TeamSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, answers, score, submitted, COALESCE(submitted_at, '')
		FROM team_submissions WHERE game_id = ?
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := map[string]game.TeamSubmission{}
	for rows.Next() {
		sub, err := scanTeamSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs[sub.TeamID] = sub
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) TeamSubmission(ctx context.Context, gameID, teamID string) (game.TeamSubmission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT team_id, answers, score, submitted, COALESCE(submitted_at, '')
		FROM team_submissions WHERE game_id = ? AND team_id = ?
	`, gameID, teamID)
	sub, err := scanTeamSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sub, ErrNotFound
	}
	return sub, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeamSubmission(row rowScanner) (game.TeamSubmission, error) {
	var sub game.TeamSubmission
	var answersJSON string
	if err := row.Scan(&sub.TeamID, &answersJSON, &sub.Score, &sub.Submitted, &sub.SubmittedAt); err != nil {
		return sub, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &sub.Answers); err != nil {
		return sub, fmt.Errorf("decoding answers: %w", err)
	}
	return sub, nil
}

func (s *SQLiteStore) SaveTeamSubmission(ctx context.Context, gameID string, sub game.TeamSubmission) error {
	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO team_submissions (id, game_id, team_id, answers, score, submitted, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			answers = excluded.answers,
			score = excluded.score,
			submitted = excluded.submitted,
			submitted_at = excluded.submitted_at
	`, uuid.NewString(), gameID, sub.TeamID, string(answersJSON), sub.Score, sub.Submitted)
	return err
}

func (s *SQLiteStore) IndividualSubmissions(ctx context.Context, gameID string) ([]game.IndividualSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, player_name, answers, score, submitted_at
		FROM individual_submissions
		WHERE game_id = ?
		ORDER BY score DESC, submitted_at
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []game.IndividualSubmission
	for rows.Next() {
		var sub game.IndividualSubmission
		var answersJSON string
		if err := rows.Scan(&sub.ID, &sub.TeamID, &sub.PlayerName, &answersJSON, &sub.Score, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answersJSON), &sub.Answers); err != nil {
			return nil, fmt.Errorf("decoding answers: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) CreateIndividualSubmission(ctx context.Context, gameID string, sub game.IndividualSubmission) (game.IndividualSubmission, error) {
	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return sub, fmt.Errorf("encoding answers: %w", err)
	}
	sub.ID = uuid.NewString()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO individual_submissions (id, game_id, team_id, player_name, answers, score)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING submitted_at
	`, sub.ID, gameID, sub.TeamID, sub.PlayerName, string(answersJSON), sub.Score).Scan(&sub.SubmittedAt)
	if isUniqueViolation(err) {
		return sub, ErrDuplicate
	}
	return sub, err
}

func (s *SQLiteStore) MasterByEmail(ctx context.Context, email string) (string, string, error) {
	var id, passwordHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM masters WHERE email = ?`, email).Scan(&id, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, passwordHash, err
}

func (s *SQLiteStore) CreateMaster(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO masters (id, email, password_hash) VALUES (?, ?, ?)`,
		uuid.NewString(), email, passwordHash)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *SQLiteStore) CreateMasterSession(ctx context.Context, masterID string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO master_sessions (id, master_id) VALUES (?, ?)`, id, masterID)
	return id, err
}

func (s *SQLiteStore) DeleteMasterSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM master_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) MasterFromSession(ctx context.Context, sessionID string) (masterSession, error) {
	var sess masterSession
	err := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.email
		FROM master_sessions s
		JOIN masters m ON m.id = s.master_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.MasterID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return masterSession{}, errNoMasterSession
	}
	return sess, err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation catches writes against a game that no longer
// exists. libsql exposes no typed errors, so match the message.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
