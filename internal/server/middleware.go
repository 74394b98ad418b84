package server

import (
	"context"
	"net/http"
)

type ctxKey int

const ctxKeyMaster ctxKey = iota

func masterAuthMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(masterCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			sess, err := store.MasterFromSession(r.Context(), cookie.Value)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyMaster, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func masterFrom(r *http.Request) masterSession {
	return r.Context().Value(ctxKeyMaster).(masterSession)
}
