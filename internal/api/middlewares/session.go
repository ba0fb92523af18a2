package middlewares

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "session_token"

// EnsureSession gives every caller an opaque session token, minting one on
// demand. The token only labels anonymous loans and search history; session
// lifecycle beyond the cookie itself is the identity service's concern.
func EnsureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ""
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			key = c.Value
		}
		if key == "" {
			key = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    key,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		actor := ActorFrom(r)
		actor.SessionKey = key
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
