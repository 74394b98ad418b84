package server

import (
	"context"
	"errors"

	"github.com/fldgames/gamemaster/internal/game"
)

var (
	// ErrNotFound is returned for unknown games, codes, and sessions.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned for a second row where one is allowed.
	ErrDuplicate = errors.New("already exists")
)

// Game is one stored game with its nested configuration blobs.
type Game struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Code      string        `json:"code"`
	Config    game.Config   `json:"config"`
	Branding  game.Branding `json:"branding"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// GameSummary is the list-view row of the console's load screen.
type GameSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	NumTeams    int    `json:"numTeams"`
	NumStations int    `json:"numStations"`
	CreatedAt   string `json:"createdAt"`
}

type masterSession struct {
	MasterID string
	Email    string
}

var errNoMasterSession = errors.New("no valid master session")

// Store is the persistence surface for games, quizzes, replicated state,
// submissions, and console logins.
type Store interface {
	CreateGame(ctx context.Context, name, code string, cfg game.Config, branding game.Branding) (Game, error)
	GameByID(ctx context.Context, id string) (Game, error)
	GameByCode(ctx context.Context, code string) (Game, error)
	ListGames(ctx context.Context) ([]GameSummary, error)
	DeleteGame(ctx context.Context, id string) error
	UpdateConfig(ctx context.Context, id string, cfg game.Config) error
	UpdateBranding(ctx context.Context, id string, b game.Branding) error

	TeamQuiz(ctx context.Context, gameID string) ([]game.QuizQuestion, error)
	IndividualQuiz(ctx context.Context, gameID string) ([]game.QuizQuestion, error)
	SaveTeamQuiz(ctx context.Context, gameID string, questions []game.QuizQuestion) error
	SaveIndividualQuiz(ctx context.Context, gameID string, questions []game.QuizQuestion) error

	GameState(ctx context.Context, gameID string) (game.State, error)
	SaveGameState(ctx context.Context, gameID string, s game.State) error

	TeamSubmissions(ctx context.Context, gameID string) (map[string]game.TeamSubmission, error)
	TeamSubmission(ctx context.Context, gameID, teamID string) (game.TeamSubmission, error)
	SaveTeamSubmission(ctx context.Context, gameID string, sub game.TeamSubmission) error

	IndividualSubmissions(ctx context.Context, gameID string) ([]game.IndividualSubmission, error)
	CreateIndividualSubmission(ctx context.Context, gameID string, sub game.IndividualSubmission) (game.IndividualSubmission, error)

	MasterByEmail(ctx context.Context, email string) (id, passwordHash string, err error)
	CreateMaster(ctx context.Context, email, passwordHash string) error
	CreateMasterSession(ctx context.Context, masterID string) (string, error)
	DeleteMasterSession(ctx context.Context, sessionID string) error
	MasterFromSession(ctx context.Context, sessionID string) (masterSession, error)
}
