package middleware

import "net/http"

const internalKeyHeader = "X-Internal-Key"

// InternalKey guards the trusted backend-to-backend surface (dispatch,
// registry listing, audit export). When key is empty the check is disabled,
// matching deployments where the surface is network-isolated instead.
func InternalKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" && r.Header.Get(internalKeyHeader) != key {
				writeJSONError(w, http.StatusUnauthorized, "invalid internal key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
