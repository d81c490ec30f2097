// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seedrec/internal/logging"
	"github.com/tomtom215/seedrec/internal/models"
	"github.com/tomtom215/seedrec/internal/seedrec"
	"github.com/tomtom215/seedrec/internal/traits"
	"github.com/tomtom215/seedrec/internal/validation"
)

// sanitizeLogValue escapes control characters so client input cannot
// forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes response with the given status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a 200 envelope around data. start is when the
// handler began; it sets query_time_ms.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError writes an error envelope. err, when non-nil, is logged and
// never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.
			Str("code", apiErr.Code).
			Str("path", r.URL.Path).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: apiErr,
	})
}

// respondTypedError maps the error types of the engine, traits and
// validation packages to a status and error code.
func respondTypedError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr      *validation.RequestValidationError
		inputErr  *seedrec.InputError
		configErr *seedrec.ConfigError
		schemaErr *traits.SchemaError
	)

	switch {
	case errors.As(err, &verr):
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError(), nil)
	case errors.As(err, &inputErr):
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    models.CodeInput,
			Message: inputErr.Error(),
			Details: map[string]interface{}{"field": inputErr.Field, "reason": inputErr.Reason},
		}, nil)
	case errors.As(err, &schemaErr):
		details := map[string]interface{}{}
		if len(schemaErr.Missing) > 0 {
			details["missing_columns"] = schemaErr.Missing
		}
		respondAPIError(w, r, http.StatusUnprocessableEntity, &models.APIError{
			Code:    models.CodeSchema,
			Message: schemaErr.Error(),
			Details: details,
		}, err)
	case errors.As(err, &configErr):
		respondAPIError(w, r, http.StatusInternalServerError, &models.APIError{
			Code:    models.CodeConfig,
			Message: "Scoring configuration is invalid",
			Details: map[string]interface{}{"field": configErr.Field},
		}, err)
	default:
		respondError(w, r, http.StatusInternalServerError, models.CodeInternal, "Internal server error", err)
	}
}

// isBodyTooLarge reports whether err came from an http.MaxBytesReader.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
