package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fldgames/gamemaster/internal/game"
)

// ShareResponse is everything the console's share dialog shows: the join
// code, direct links, and a QR image for the join link.
type ShareResponse struct {
	Code      string `json:"code"`
	PlayerURL string `json:"playerUrl"`
	JoinURL   string `json:"joinUrl"`
	QRURL     string `json:"qrUrl"`
}

func handleMasterShare(store Store, publicURL string) http.HandlerFunc {
	base := strings.TrimRight(publicURL, "/")
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

		joinURL := base + "/play?code=" + url.QueryEscape(g.Code)
		writeJSON(w, http.StatusOK, ShareResponse{
			Code:      g.Code,
			PlayerURL: base + "/?view=team&game=" + url.QueryEscape(g.ID),
			JoinURL:   joinURL,
			QRURL:     "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=" + url.QueryEscape(joinURL),
		})
	}
}

func handleMasterExport(store Store) http.HandlerFunc {
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

		doc := game.ExportDoc{Name: g.Name, Config: g.Config, Branding: g.Branding}
		if doc.TeamQuiz, err = store.TeamQuiz(r.Context(), gameID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if doc.IndividualQuiz, err = store.IndividualQuiz(r.Context(), gameID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		data, err := game.MarshalExport(doc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(g.Name)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func exportFilename(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, name)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "game"
	}
	return slug + ".json"
}

// handleMasterImport creates a brand-new game from an exported document.
// State, submissions, and the join code never travel in an export.
func handleMasterImport(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading request body")
			return
		}

		doc, err := game.ParseExport(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		name := strings.TrimSpace(doc.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "export document has no game name")
			return
		}
		doc.Config.GameName = name

		created, err := createGameWithCode(r, store, name, doc.Config, doc.Branding)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if len(doc.TeamQuiz) > 0 {
			if err := store.SaveTeamQuiz(r.Context(), created.ID, doc.TeamQuiz); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}
		if len(doc.IndividualQuiz) > 0 {
			if err := store.SaveIndividualQuiz(r.Context(), created.ID, doc.IndividualQuiz); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
