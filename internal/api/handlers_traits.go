// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/tomtom215/seedrec/internal/logging"
	"github.com/tomtom215/seedrec/internal/models"
	"github.com/tomtom215/seedrec/internal/traits"
)

// uploadField is the multipart form field holding the CSV.
const uploadField = "file"

// ValidateTraits handles POST /api/v1/traits/validate.
// The CSV is sent as a text/csv body or as the "file" part of a
// multipart/form-data upload. The live table is never touched; the response
// data is a traits.Validation.
func (h *Handler) ValidateTraits(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)

	body, closeBody, ok := h.csvBody(w, r)
	if !ok {
		return
	}
	defer closeBody()

	report, err := traits.Validate(body)
	if err != nil {
		if isBodyTooLarge(err) {
			respondError(w, r, http.StatusRequestEntityTooLarge, models.CodePayloadTooLarge, "Upload too large", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, models.CodeInvalidCSV, "Could not read CSV upload", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Bool("valid", report.Valid).
		Int("varieties", report.TotalVarieties).
		Int("errors", len(report.Errors)).
		Int("warnings", len(report.Warnings)).
		Msg("Traits upload validated")

	respondSuccess(w, r, report, start)
}

// csvBody returns the CSV stream of r. On failure it has already written
// the error response.
func (h *Handler) csvBody(w http.ResponseWriter, r *http.Request) (io.Reader, func(), bool) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "text/csv", "application/csv", "text/plain":
		return r.Body, func() {}, true

	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
			if isBodyTooLarge(err) {
				respondError(w, r, http.StatusRequestEntityTooLarge, models.CodePayloadTooLarge, "Upload too large", nil)
			} else {
				respondError(w, r, http.StatusBadRequest, models.CodeInvalidCSV, "Malformed multipart upload", err)
			}
			return nil, nil, false
		}
		file, _, err := r.FormFile(uploadField)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, models.CodeInvalidCSV, `Multipart upload must include a "file" part`, err)
			return nil, nil, false
		}
		return file, func() { _ = file.Close() }, true

	default:
		respondError(w, r, http.StatusUnsupportedMediaType, models.CodeUnsupportedMedia,
			"Content-Type must be text/csv or multipart/form-data", nil)
		return nil, nil, false
	}
}

// ReloadTraits handles POST /api/v1/traits/reload.
// The configured traits file is re-read and swapped in. On failure the
// previous table stays live and the error is returned.
func (h *Handler) ReloadTraits(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, changed, err := h.traits.Load()
	if err != nil {
		respondTypedError(w, r, err)
		return
	}

	warnings := make([]string, 0, len(snap.Issues))
	for _, issue := range snap.Issues {
		warnings = append(warnings, issue.String())
	}

	message := "Traits table reloaded"
	if !changed {
		message = "Traits file unchanged"
	}

	respondSuccess(w, r, models.TraitsReloadResponse{
		Changed:        changed,
		TotalVarieties: snap.Len(),
		RejectedRows:   snap.RejectedRows,
		Warnings:       warnings,
		LoadedAt:       snap.LoadedAt,
		Checksum:       snap.Checksum,
		Message:        message,
	}, start)
}
