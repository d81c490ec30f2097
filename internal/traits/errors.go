// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package traits

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is matched by every *SchemaError.
var ErrSchema = errors.New("invalid traits schema")

// SchemaError rejects a whole traits source.
type SchemaError struct {
	// Missing lists required columns absent from the header.
	Missing []string

	// Reason is set for structural problems other than missing columns.
	Reason string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required columns: " + strings.Join(e.Missing, ", ")
	}
	return "invalid traits source: " + e.Reason
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// RowValidationIssue describes one defect of one row. The row is excluded
// from the table but the load continues.
type RowValidationIssue struct {
	// Row is the 1-based line of the record, counting the header as row 1.
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// String formats the issue for reports and logs.
func (i RowValidationIssue) String() string {
	if i.Value != "" {
		return fmt.Sprintf("Row %d: %s=%q %s", i.Row, i.Field, i.Value, i.Reason)
	}
	return fmt.Sprintf("Row %d: %s %s", i.Row, i.Field, i.Reason)
}

const duplicateReason = "duplicates crop-variety combination of row"

// IsDuplicate reports whether the issue flags a repeated (crop, variety)
// pair. Duplicates are dropped like any invalid row but reported as
// warnings by Validate.
//
//nolint:gocritic // value receiver matches String
func (i RowValidationIssue) IsDuplicate() bool {
	return strings.HasPrefix(i.Reason, duplicateReason)
}
