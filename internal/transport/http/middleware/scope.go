package middleware

import (
	"net/http"
)

// RequireScope returns middleware that allows access only to tokens granting
// at least one of the given scopes (e.g. jwtinfra.ScopeAdmin).
func RequireScope(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, s := range allowed {
				if claims.HasScope(s) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}
