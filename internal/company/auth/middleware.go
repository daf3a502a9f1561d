package auth

import (
	"net/http"
	"strings"
)

const companiesPath = "/v1/companies"

// HTTPMiddleware validates bearer tokens on mutating requests under /v1/companies.
func HTTPMiddleware(next http.Handler, jwtSecret string) http.Handler {
	secret := []byte(jwtSecret)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx, err := authorize(r.Context(), r.Header.Get("Authorization"), secret)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isProtectedRequest mirrors ProtectedMethods for the HTTP routes:
// POST creates, PUT updates, DELETE removes one or all companies.
func isProtectedRequest(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return false
	}

	path := r.URL.Path
	return path == companiesPath || strings.HasPrefix(path, companiesPath+"/")
}
