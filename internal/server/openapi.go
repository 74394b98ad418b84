package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/fldgames/gamemaster/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps dependency name to its check result.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Fun Loving Detectives API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Fun Loving Detectives game master console and player views.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/play/{code}
	getPlay, _ := r.NewOperationContext(http.MethodGet, "/api/play/{code}")
	getPlay.SetSummary("Resolve join code")
	getPlay.SetDescription("Resolves a join code to the game and its teams.")
	getPlay.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPlay.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPlay)

	// GET /api/games/{gameID}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/state")
	getState.SetSummary("Get game view")
	getState.SetDescription("Returns the sanitized player view: state, positions, unlocked quizzes, revealed scores.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of state snapshots and submission events for a game.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{gameID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/ws")
	getWS.SetSummary("WebSocket event stream")
	getWS.SetDescription("Upgrades to a WebSocket streaming the same events as the SSE endpoint.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/games/{gameID}/team-submission
	postTeamSub, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/team-submission")
	postTeamSub.SetSummary("Submit team quiz")
	postTeamSub.SetDescription("Submits the team quiz. Graded server-side; one submission per team.")
	postTeamSub.AddReqStructure(TeamSubmissionRequest{})
	postTeamSub.AddRespStructure(SubmissionResult{}, openapi.WithHTTPStatus(http.StatusCreated))
	postTeamSub.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTeamSub.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTeamSub)

	// POST /api/games/{gameID}/individual-submissions
	postIndSub, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/individual-submissions")
	postIndSub.SetSummary("Submit individual quiz")
	postIndSub.SetDescription("Submits one player's individual quiz. Graded server-side; one submission per player name.")
	postIndSub.AddReqStructure(IndividualSubmissionRequest{})
	postIndSub.AddRespStructure(SubmissionResult{}, openapi.WithHTTPStatus(http.StatusCreated))
	postIndSub.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postIndSub.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postIndSub)

	// POST /api/master/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/master/login")
	postLogin.SetSummary("Master login")
	postLogin.SetDescription("Authenticate with email and password. Sets master_session cookie.")
	postLogin.AddReqStructure(MasterLoginRequest{})
	postLogin.AddRespStructure(MasterMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/master/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/master/logout")
	postLogout.SetSummary("Master logout")
	postLogout.SetDescription("Clears the master session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/master/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/master/me")
	getMe.SetSummary("Current master")
	getMe.SetDescription("Returns the authenticated master. Requires master_session cookie.")
	getMe.AddRespStructure(MasterMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/master/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/master/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns all games with team and station counts. Requires master_session cookie.")
	listGames.AddRespStructure([]GameSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listGames)

	// POST /api/master/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/master/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a game with default config and a fresh join code. Requires master_session cookie.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createGame)

	// POST /api/master/games/import
	importGame, _ := r.NewOperationContext(http.MethodPost, "/api/master/games/import")
	importGame.SetSummary("Import game")
	importGame.SetDescription("Creates a new game from an exported document. Requires master_session cookie.")
	importGame.AddReqStructure(game.ExportDoc{})
	importGame.AddRespStructure(Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	importGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	importGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(importGame)

	// GET /api/master/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/master/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns a game with both quizzes and the current state. Requires master_session cookie.")
	getGame.AddRespStructure(GameDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getGame)

	// DELETE /api/master/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/master/games/{gameID}")
	deleteGame.SetSummary("Delete game")
	deleteGame.SetDescription("Deletes a game and everything under it. Requires master_session cookie.")
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteGame)

	// PUT /api/master/games/{gameID}/config
	putConfig, _ := r.NewOperationContext(http.MethodPut, "/api/master/games/{gameID}/config")
	putConfig.SetSummary("Save config")
	putConfig.SetDescription("Replaces the game's configuration blob. Requires master_session cookie.")
	putConfig.AddReqStructure(game.Config{})
	putConfig.AddRespStructure(game.Config{}, openapi.WithHTTPStatus(http.StatusOK))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putConfig)

	// PUT /api/master/games/{gameID}/branding
	putBranding, _ := r.NewOperationContext(http.MethodPut, "/api/master/games/{gameID}/branding")
	putBranding.SetSummary("Save branding")
	putBranding.SetDescription("Replaces the game's branding blob. Requires master_session cookie.")
	putBranding.AddReqStructure(game.Branding{})
	putBranding.AddRespStructure(game.Branding{}, openapi.WithHTTPStatus(http.StatusOK))
	putBranding.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putBranding)

	// PUT /api/master/games/{gameID}/team-quiz
	putTeamQuiz, _ := r.NewOperationContext(http.MethodPut, "/api/master/games/{gameID}/team-quiz")
	putTeamQuiz.SetSummary("Save team quiz")
	putTeamQuiz.SetDescription("Replaces the team quiz question list. Requires master_session cookie.")
	putTeamQuiz.AddReqStructure([]game.QuizQuestion{})
	putTeamQuiz.AddRespStructure([]game.QuizQuestion{}, openapi.WithHTTPStatus(http.StatusOK))
	putTeamQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putTeamQuiz)

	// PUT /api/master/games/{gameID}/individual-quiz
	putIndQuiz, _ := r.NewOperationContext(http.MethodPut, "/api/master/games/{gameID}/individual-quiz")
	putIndQuiz.SetSummary("Save individual quiz")
	putIndQuiz.SetDescription("Replaces the individual quiz question list. Requires master_session cookie.")
	putIndQuiz.AddReqStructure([]game.QuizQuestion{})
	putIndQuiz.AddRespStructure([]game.QuizQuestion{}, openapi.WithHTTPStatus(http.StatusOK))
	putIndQuiz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putIndQuiz)

	// POST /api/master/games/{gameID}/routes
	postRoutes, _ := r.NewOperationContext(http.MethodPost, "/api/master/games/{gameID}/routes")
	postRoutes.SetSummary("Generate routes")
	postRoutes.SetDescription("Regenerates the team/station rotation and stores it in the config. Requires master_session cookie.")
	postRoutes.AddRespStructure(map[string][]string{}, openapi.WithHTTPStatus(http.StatusOK))
	postRoutes.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRoutes.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postRoutes)

	// POST /api/master/games/{gameID}/control
	postControl, _ := r.NewOperationContext(http.MethodPost, "/api/master/games/{gameID}/control")
	postControl.SetSummary("Control game")
	postControl.SetDescription("Applies a control action (start, pause, next_round, toggles, end). Requires master_session cookie.")
	postControl.AddReqStructure(ControlRequest{})
	postControl.AddRespStructure(game.State{}, openapi.WithHTTPStatus(http.StatusOK))
	postControl.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postControl.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postControl)

	// GET /api/master/games/{gameID}/submissions
	getSubs, _ := r.NewOperationContext(http.MethodGet, "/api/master/games/{gameID}/submissions")
	getSubs.SetSummary("List submissions")
	getSubs.SetDescription("Returns all team and individual submissions with answers. Requires master_session cookie.")
	getSubs.AddRespStructure(SubmissionsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSubs.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getSubs)

	// GET /api/master/games/{gameID}/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/master/games/{gameID}/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Returns both ranked boards regardless of the reveal flag. Requires master_session cookie.")
	getBoard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getBoard)

	// GET /api/master/games/{gameID}/share
	getShare, _ := r.NewOperationContext(http.MethodGet, "/api/master/games/{gameID}/share")
	getShare.SetSummary("Share links")
	getShare.SetDescription("Returns the join code, player links, and QR image URL. Requires master_session cookie.")
	getShare.AddRespStructure(ShareResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getShare.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getShare)

	// GET /api/master/games/{gameID}/export
	getExport, _ := r.NewOperationContext(http.MethodGet, "/api/master/games/{gameID}/export")
	getExport.SetSummary("Export game")
	getExport.SetDescription("Downloads the game setup as a re-importable JSON document. Requires master_session cookie.")
	getExport.AddRespStructure(game.ExportDoc{}, openapi.WithHTTPStatus(http.StatusOK))
	getExport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getExport)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
