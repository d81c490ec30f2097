// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package traits

import (
	"errors"
	"fmt"
	"io"
)

// Typical maturity bounds in days. Rows outside are accepted with a warning.
const (
	MinTypicalMaturityDays = 30
	MaxTypicalMaturityDays = 365
)

// Validation is a dry-run report on a traits source. It never touches the
// live table.
type Validation struct {
	Valid          bool                 `json:"valid"`
	Errors         []string             `json:"errors"`
	Warnings       []string             `json:"warnings"`
	Issues         []RowValidationIssue `json:"issues"`
	TotalRows      int                  `json:"total_rows"`
	TotalVarieties int                  `json:"total_varieties"`
	Message        string               `json:"message"`
}

// Validate parses r and classifies what it finds. A schema error or any
// rejected row other than a duplicate makes the source invalid. Duplicates
// and atypical maturity values are warnings. Only read failures from r are
// returned as errors.
func Validate(r io.Reader) (*Validation, error) {
	v := &Validation{Errors: []string{}, Warnings: []string{}, Issues: []RowValidationIssue{}}

	report, err := Parse(r)
	if err != nil {
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			return nil, err
		}
		v.Errors = append(v.Errors, schemaErr.Error())
		v.Message = fmt.Sprintf("Traits file has %d errors and %d warnings", len(v.Errors), len(v.Warnings))
		return v, nil
	}

	v.TotalRows = report.TotalRows
	v.TotalVarieties = len(report.Traits)
	v.Issues = append(v.Issues, report.Issues...)
	for _, issue := range report.Issues {
		if issue.IsDuplicate() {
			v.Warnings = append(v.Warnings, issue.String())
		} else {
			v.Errors = append(v.Errors, issue.String())
		}
	}
	for _, t := range report.Traits {
		if t.MaturityDays < MinTypicalMaturityDays || t.MaturityDays > MaxTypicalMaturityDays {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s %s: maturity_days %d outside typical %d-%d range",
				t.Crop, t.Variety, t.MaturityDays, MinTypicalMaturityDays, MaxTypicalMaturityDays))
		}
	}

	v.Valid = len(v.Errors) == 0
	if v.Valid {
		v.Message = fmt.Sprintf("Traits file is valid with %d varieties", v.TotalVarieties)
	} else {
		v.Message = fmt.Sprintf("Traits file has %d errors and %d warnings", len(v.Errors), len(v.Warnings))
	}
	return v, nil
}
