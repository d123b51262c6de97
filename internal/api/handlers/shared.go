// Package handlers contains the HTTP layer adapters: they parse
// requests, delegate to the services and shape responses.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// parseJSON decodes a request body into T, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var parsed T

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&parsed); err != nil {
		return parsed, fmt.Errorf("invalid JSON body: %w", err)
	}

	return parsed, nil
}
