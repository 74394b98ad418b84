package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/fldgames/gamemaster/internal/session"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, sessions *session.Registry, broker *session.Broker, publicURL, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Fun Loving Detectives API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Player routes — anonymous, read-only except submissions.
	r.Get("/api/play/{code}", handleJoinByCode(store))
	r.Route("/api/games/{gameID}", func(r chi.Router) {
		r.Get("/state", handleGameState(store, sessions))
		r.Get("/events", handleEvents(sessions, broker))
		r.Get("/ws", handleWS(logger, sessions, broker))
		r.Post("/team-submission", handleTeamSubmission(store, sessions))
		r.Post("/individual-submissions", handleIndividualSubmission(store, sessions))
	})

	// Console auth.
	r.Post("/api/master/login", handleMasterLogin(store))
	r.Post("/api/master/logout", handleMasterLogout(store))

	// Console routes — cookie session required.
	r.Route("/api/master", func(r chi.Router) {
		r.Use(masterAuthMiddleware(store))

		r.Get("/me", handleMasterMe())

		r.Get("/games", handleMasterListGames(store))
		r.Post("/games", handleMasterCreateGame(store))
		r.Post("/games/import", handleMasterImport(store))

		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/", handleMasterGetGame(store))
			r.Delete("/", handleMasterDeleteGame(store, sessions))
			r.Put("/config", handleMasterUpdateConfig(store, sessions))
			r.Put("/branding", handleMasterUpdateBranding(store))
			r.Put("/team-quiz", handleMasterSaveQuiz(sessions, store.SaveTeamQuiz))
			r.Put("/individual-quiz", handleMasterSaveQuiz(sessions, store.SaveIndividualQuiz))
			r.Post("/routes", handleMasterGenerateRoutes(store, sessions))
			r.Post("/control", handleMasterControl(sessions))
			r.Get("/submissions", handleMasterSubmissions(store))
			r.Get("/leaderboard", handleMasterLeaderboard(store))
			r.Get("/share", handleMasterShare(store, publicURL))
			r.Get("/export", handleMasterExport(store))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
