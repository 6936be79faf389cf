package httpx

import (
	"encoding/json"
	"net/http"
)

// BearerTokenExpired is the WWW-Authenticate value advertising that the
// access token specifically expired. Cooperating clients use it to tell
// "refresh and retry" apart from "re-authenticate".
const BearerTokenExpired = `Bearer error="token_expired", error_description="The access token expired"`

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses that set auth cookies.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
