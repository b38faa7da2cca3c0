package server

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Error     string        `json:"error"`
	Question  *questionView `json:"question,omitempty"`
	Complete  bool          `json:"complete,omitempty"`
	ResultURL string        `json:"result_url,omitempty"`
	Redirect  string        `json:"redirect,omitempty"`
}
