// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid scoring configuration")

	// ErrInput is matched by every *InputError.
	ErrInput = errors.New("invalid query context")

	// ErrModelUnavailable is matched by every *ModelUnavailableError.
	ErrModelUnavailable = errors.New("yield model unavailable")
)

// ConfigError reports an invalid weights, hybrid weights or tolerances
// value. It is fatal: no scoring happens with an invalid configuration.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// InputError reports an invalid field of a QueryContext.
type InputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInput
}

// ModelUnavailableError describes why no yield prediction could be made.
// It is never returned from Engine.Recommend; it travels inside an
// Unavailable Outcome and is logged.
type ModelUnavailableError struct {
	Crop   string
	Reason string
	Err    error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("yield model for %s unavailable: %s: %v", e.Crop, e.Reason, e.Err)
	}
	return fmt.Sprintf("yield model for %s unavailable: %s", e.Crop, e.Reason)
}

// Is reports whether target is ErrModelUnavailable.
func (e *ModelUnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// Unwrap returns the underlying cause.
func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}
