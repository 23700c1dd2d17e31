package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxJSONBody caps request bodies decoded by parseJSON.
const maxJSONBody = 1 << 20

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode JSON")
		}
	}
}

// parseJSON decodes the request body into T, rejecting unknown fields and
// trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, fmt.Errorf("request body is required")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return req, fmt.Errorf("invalid JSON: unexpected data after the request object")
	}
	return req, nil
}

// baseParam returns the upper-cased base query parameter, or fallback when absent.
func baseParam(r *http.Request, fallback string) string {
	base := strings.TrimSpace(r.URL.Query().Get("base"))
	if base == "" {
		base = fallback
	}
	return strings.ToUpper(base)
}
