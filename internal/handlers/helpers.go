package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// userIDHeader carries the optional session identifier
const userIDHeader = "x-user-id"

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response. The message field is
// the user-facing summary; error carries the same detail for clients that
// only read one of the two.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
		"error":   message,
	})
}

// UserID resolves the user identifier for a request: body value first,
// falling back to the x-user-id header.
func UserID(r *http.Request, bodyUserID string) string {
	if id := strings.TrimSpace(bodyUserID); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}
