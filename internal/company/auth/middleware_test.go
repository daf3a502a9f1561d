package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	const secret = "test-secret"
	validToken, err := GenerateToken("user-1", secret)
	require.NoError(t, err)
	foreignToken, err := GenerateToken("user-1", "other-secret")
	require.NoError(t, err)

	tests := []struct {
		name        string
		method      string
		path        string
		header      string
		wantStatus  int
		wantSubject string
	}{
		{name: "list is public", method: http.MethodGet, path: "/v1/companies", wantStatus: http.StatusOK},
		{name: "get is public", method: http.MethodGet, path: "/v1/companies/c1", wantStatus: http.StatusOK},
		{name: "create without token", method: http.MethodPost, path: "/v1/companies", wantStatus: http.StatusUnauthorized},
		{name: "create with token", method: http.MethodPost, path: "/v1/companies", header: "Bearer " + validToken, wantStatus: http.StatusOK, wantSubject: "user-1"},
		{name: "update with foreign token", method: http.MethodPut, path: "/v1/companies/c1", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized},
		{name: "delete without bearer prefix", method: http.MethodDelete, path: "/v1/companies/c1", header: validToken, wantStatus: http.StatusUnauthorized},
		{name: "delete all with token", method: http.MethodDelete, path: "/v1/companies", header: "Bearer " + validToken, wantStatus: http.StatusOK, wantSubject: "user-1"},
		{name: "other paths untouched", method: http.MethodPost, path: "/healthz", wantStatus: http.StatusOK},
		{name: "similar prefix untouched", method: http.MethodPost, path: "/v1/companiesx", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSubject string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject = Subject(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			HTTPMiddleware(next, secret).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSubject, gotSubject)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("user-42", "secret")
	require.NoError(t, err)

	claims, err := parseClaims(token, []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims["sub"])
	assert.Equal(t, "auth-service", claims["iss"])

	_, err = parseClaims(token, []byte("wrong"))
	assert.Error(t, err)
}
