package middleware

import (
	"net/http"
	"strings"
)

// CORS allows the configured origins on the HTTP endpoints. Without a
// configured list only localhost is allowed, which covers development.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if len(allowedOrigins) == 0 {
				if strings.HasPrefix(origin, "http://localhost:") ||
					strings.HasPrefix(origin, "https://localhost:") {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
			} else {
				for _, allowed := range allowedOrigins {
					if strings.TrimSuffix(allowed, "/") == strings.TrimSuffix(origin, "/") {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						break
					}
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
