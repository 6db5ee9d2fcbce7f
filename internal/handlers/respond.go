package handlers

import (
	"encoding/json"
	"net/http"

	"sweetshop/internal/apperr"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// respondAppError maps a service or storage error onto its HTTP shape.
func respondAppError(w http.ResponseWriter, err error) {
	respondWithError(w, apperr.Status(err), apperr.Code(err), apperr.PublicMessage(err))
}
