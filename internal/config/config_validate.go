// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package config

import (
	"fmt"

	"github.com/tomtom215/seedrec/internal/validation"
)

// Validate checks structural rules with validator tags, then the scoring
// section with seedrec rules. A scoring problem is returned as a
// *seedrec.ConfigError so callers can match seedrec.ErrConfig.
func (c *Config) Validate() error {
	for _, section := range []struct {
		name  string
		value interface{}
	}{
		{"server", &c.Server},
		{"logging", &c.Logging},
		{"traits", &c.Traits},
		{"yield", &c.Yield},
	} {
		if verr := validation.ValidateStruct(section.value); verr != nil {
			return fmt.Errorf("%s: %w", section.name, verr)
		}
	}

	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return nil
}
