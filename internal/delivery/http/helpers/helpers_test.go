package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (n nameRequest) Validate() []string {
	if n.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		limit          int64
		wantOK         bool
		wantStatus     int
		wantBodySubstr string
	}{
		{name: "valid", body: `{"name":"a"}`, wantOK: true},
		{name: "trailing whitespace", body: "{\"name\":\"a\"}\n", wantOK: true},
		{name: "invalid json", body: `{invalid`, wantStatus: http.StatusBadRequest, wantBodySubstr: "invalid character"},
		{name: "unknown field", body: `{"name":"a","x":1}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "unknown field"},
		{name: "second object", body: `{"name":"a"}{"name":"b"}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "single JSON object"},
		{name: "validation failure", body: `{}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "name is required"},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", 64) + `"}`, limit: 16, wantStatus: http.StatusRequestEntityTooLarge, wantBodySubstr: ErrCodePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(rr, req.Body, tt.limit)
			}

			var dest nameRequest
			ok := DecodeAndValidate(rr, req, &dest)

			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "a", dest.Name)
				return
			}
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
		})
	}
}

func TestWriteJSONEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONSuccess(rr, http.StatusOK, map[string]int{"n": 1})
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"n":1},"error":null}`, rr.Body.String())

	rr = httptest.NewRecorder()
	WriteJSONError(rr, http.StatusForbidden, ErrCodeForbidden, "nope")
	require.Equal(t, http.StatusForbidden, rr.Code)
	var env APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Nil(t, env.Data)
	assert.Equal(t, &APIError{Code: ErrCodeForbidden, Message: "nope"}, env.Error)
}
