package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/engine"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// httpError sends a JSON error. internalDetails are logged, never returned.
func httpError(w http.ResponseWriter, status int, clientMsg string, internalDetails ...string) {
	if len(internalDetails) > 0 {
		log.Error().
			Int("status", status).
			Str("clientMsg", clientMsg).
			Strs("internalDetails", internalDetails).
			Msg("HTTP error with internal details")
	}
	respondJSON(w, status, errorBody{Error: clientMsg})
}

// statusFor maps an edit error kind to its HTTP status.
func statusFor(kind edit.Kind) int {
	switch kind {
	case edit.KindInvalidInput:
		return http.StatusBadRequest
	case edit.KindConfiguration:
		return http.StatusServiceUnavailable
	case edit.KindBilling:
		return http.StatusPaymentRequired
	case edit.KindTimeout:
		return http.StatusGatewayTimeout
	case edit.KindProvider:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError translates an engine error. Only the user-facing message of a
// typed error is returned; anything else is a generic 500.
func writeError(w http.ResponseWriter, err error) {
	body := errorBody{SourceURL: engine.SourceURLOf(err)}

	var e *edit.Error
	switch {
	case errors.As(err, &e):
		body.Error, body.Kind = e.Message, string(e.Kind)
		status := statusFor(e.Kind)
		if status >= 500 {
			log.Error().Err(err).Int("status", status).Msg("Request failed")
		}
		respondJSON(w, status, body)
	case errors.Is(err, config.ErrMissing), errors.Is(err, edit.ErrNotConfigured):
		body.Error, body.Kind = "This operation is not configured on the server.", string(edit.KindConfiguration)
		log.Error().Err(err).Msg("Operation not configured")
		respondJSON(w, http.StatusServiceUnavailable, body)
	default:
		body.Error = "internal error"
		log.Error().Err(err).Msg("Request failed")
		respondJSON(w, http.StatusInternalServerError, body)
	}
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
