package utils

import (
	"encoding/json"
	"net/http"
)

// Json writes v as a JSON response with the given status.
func Json(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Err writes a JSON error envelope.
func Err(w http.ResponseWriter, status int, err error) error {
	return Json(w, status, map[string]string{"error": err.Error()})
}
