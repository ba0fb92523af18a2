package middlewares

import (
	"errors"
	"net/http"
	"strings"

	jwtutil "github.com/lfarias-dev/biblioteca-api/internal/security/jwt"
)

// OptionalAuth attaches the user identity if a valid Bearer token is present;
// otherwise the request continues as an anonymous (session-only) caller.
// Token issuance and revocation live in the external identity service.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		tokenStr, err := bearer(raw)
		if err != nil {
			next.ServeHTTP(w, r) // ignore bad header; act as guest
			return
		}
		claims, err := jwtutil.ParseAccess(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r) // ignore invalid token; act as guest
			return
		}

		actor := ActorFrom(r)
		actor.UserID = claims.Subject
		actor.Staff = claims.Staff
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireStaff gates the privileged override paths on the staff claim.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := ActorFrom(r)
		if actor.UserID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !actor.Staff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearer(h string) (string, error) {
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", errors.New("no bearer")
	}
	return strings.TrimSpace(h[len("Bearer "):]), nil
}
