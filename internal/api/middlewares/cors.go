package middlewares

import (
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Cors allows only the origins listed in CORS_ALLOWED_ORIGINS (comma-separated).
func Cors(log *zap.Logger) func(http.Handler) http.Handler {
	allowed := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if env := os.Getenv("CORS_ALLOWED_ORIGINS"); env != "" {
		allowed = allowed[:0]
		for _, o := range strings.Split(env, ",") {
			if o = strings.TrimSpace(o); o != "" {
				allowed = append(allowed, o)
			}
		}
	}

	isAllowed := func(origin string) bool {
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !isAllowed(origin) {
				log.Warn("blocked cross-origin request",
					zap.String("origin", origin),
					zap.String("path", r.URL.Path))
				http.Error(w, "Origin not allowed", http.StatusForbidden)
				return
			}

			if isAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Set("Access-Control-Expose-Headers",
				"Content-Disposition, X-Request-ID, X-RateLimit-Policy, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After, X-Response-Time")

			if r.Method == http.MethodOptions {
				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
