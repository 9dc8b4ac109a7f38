package middleware

import (
	"encoding/json"
	"net/http"

	"messbook/internal/auth"
	"messbook/internal/store"
)

const SessionCookieName = "messbook_session"

// RequireAuth validates the session cookie, resolves the user's role in
// the session's mess, and populates AuthContext. This is a JSON API, so
// failures get 401 rather than a login redirect.
func RequireAuth(sessionStore *store.SessionStore, messStore *store.MessStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			messUser, err := messStore.GetUser(sess.MessID, sess.UserID)
			if err != nil || messUser == nil {
				unauthorized(w)
				return
			}

			ac := auth.AuthContext{
				UserID:    sess.UserID,
				MessID:    sess.MessID,
				Role:      messUser.Role,
				SessionID: sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
