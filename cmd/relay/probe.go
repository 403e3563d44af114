package main

import (
	"encoding/json"
	"net/http"
)

func probe(component string, check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "UP", http.StatusOK
		if !check() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": component,
		})
	}
}
