// Package utils
package utils

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/ntentasd/motorsim/pkg/types"
)

type Body map[string]any

func ReplyJSON(w http.ResponseWriter, status int, body Body) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func ReplyBadRequest(w http.ResponseWriter, msg string) {
	ReplyJSON(w, http.StatusBadRequest, Body{"error": msg})
}

func ReplyNotFound(w http.ResponseWriter, msg string) {
	ReplyJSON(w, http.StatusNotFound, Body{"error": msg})
}

func ReplyInternalServerError(w http.ResponseWriter, msg string) {
	ReplyJSON(w, http.StatusInternalServerError, Body{"error": msg})
}

func ReplyMethodNotAllowed(w http.ResponseWriter) {
	ReplyJSON(w, http.StatusMethodNotAllowed, Body{"error": "method not allowed"})
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrSchemaMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func ReplyError(w http.ResponseWriter, err error) {
	ReplyJSON(w, StatusFor(err), Body{"error": err.Error()})
}
