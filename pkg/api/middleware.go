package api

import (
	"encoding/json"
	"net/http"
)

// apiKeyMiddleware validates the X-API-Key header on every route it wraps:
// the whole /api/v1 tree except /api/v1/health, read routes included.
func apiKeyMiddleware(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				sendError(w, "missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			if key != expectedKey {
				sendError(w, "invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sendSuccess writes a 200 envelope carrying data.
func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// sendError writes an error envelope at the given status code.
func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Error: message})
}

// sendErrorForErr maps err to its HTTP status via statusForError and
// writes the corresponding error envelope.
func sendErrorForErr(w http.ResponseWriter, err error) {
	sendError(w, err.Error(), statusForError(err))
}
