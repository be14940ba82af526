package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	tests := []struct {
		name            string
		origins         []string
		method          string
		origin          string
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
	}{
		{"allowed origin", []string{" http://app.test/ "}, http.MethodGet, "http://app.test", http.StatusOK, "http://app.test", "true"},
		{"other origin", []string{"http://app.test"}, http.MethodGet, "http://evil.test", http.StatusOK, "", ""},
		{"preflight allowed", []string{"http://app.test"}, http.MethodOptions, "http://app.test", http.StatusNoContent, "http://app.test", "true"},
		{"preflight other origin", []string{"http://app.test"}, http.MethodOptions, "http://evil.test", http.StatusNoContent, "", ""},
		{"wildcard", []string{"*"}, http.MethodGet, "http://any.test", http.StatusOK, "http://any.test", ""},
		{"no origins configured", nil, http.MethodGet, "http://app.test", http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/search", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			CORS(tt.origins, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rr.Header().Get("Access-Control-Allow-Credentials"))
			if tt.method == http.MethodOptions && tt.wantAllowOrigin != "" {
				assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			}
		})
	}
}
