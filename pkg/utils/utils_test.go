package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, ReplyJSON(rec, http.StatusCreated, Body{"state": "healthy"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"state":"healthy"}`, rec.Body.String())
}

func TestReplyError(t *testing.T) {
	_, statErr := os.Open("/does/not/exist")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"parameter", &types.ParameterError{Name: "Hour", Value: 30, Reason: "must be in [0, 23]"}, http.StatusBadRequest},
		{"schema", &types.SchemaError{Dataset: "bundle", Reason: "unsupported version"}, http.StatusUnprocessableEntity},
		{"missing file", fmt.Errorf("%w: read: %w", types.ErrIOFailure, statErr), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ReplyError(rec, tt.err)

			assert.Equal(t, tt.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestWithCORS(t *testing.T) {
	called := false
	h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/predict", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, called)
}
