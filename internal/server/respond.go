package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/mlviz/pkg/errors"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw writes an already-encoded body.
func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, err error) {
	code, msg := errors.Describe(err)
	writeJSON(w, code.Status(), ErrorResponse{Error: msg, Code: code})
}
