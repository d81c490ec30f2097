// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package traits

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/seedrec/internal/seedrec"
)

// Column names of the traits source.
const (
	ColCrop       = "crop"
	ColVariety    = "variety"
	ColPHMin      = "pH_min"
	ColPHMax      = "pH_max"
	ColTextures   = "textures_allowed"
	ColMaturity   = "maturity_days"
	ColZones      = "zone_codes"
	ColHeatTol    = "heat_tol"
	ColFloodTol   = "flood_tol"
	ColDroughtTol = "drought_tol"
	ColNotes      = "notes"
)

// RequiredColumns lists the columns every traits source must carry.
var RequiredColumns = []string{
	ColCrop, ColVariety, ColPHMin, ColPHMax, ColTextures, ColMaturity,
	ColZones, ColHeatTol, ColFloodTol, ColDroughtTol, ColNotes,
}

// Report is the result of parsing a traits source.
type Report struct {
	// Traits holds every valid row in source order.
	Traits []seedrec.VarietyTrait

	// Issues holds one entry per defect; a row may have several.
	Issues []RowValidationIssue

	// TotalRows counts data rows, valid or not.
	TotalRows int

	// RejectedRows counts rows excluded because of an issue.
	RejectedRows int
}

// Valid reports whether every row was accepted.
func (r *Report) Valid() bool {
	return len(r.Issues) == 0
}

// Parse reads a traits CSV. It returns a *SchemaError when the source has
// no header or lacks a required column; row defects are collected in the
// Report instead.
func Parse(r io.Reader) (*Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Reason: "empty source"}
	}
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("read header: %v", err)}
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	seen := make(map[string]int)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			report.TotalRows++
			report.RejectedRows++
			report.Issues = append(report.Issues, RowValidationIssue{
				Row:    line,
				Field:  "record",
				Reason: fmt.Sprintf("is malformed: %v", parseErr.Err),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if blankRecord(record) {
			continue
		}
		report.TotalRows++

		trait, issues := parseRow(line, record, cols)
		if len(issues) == 0 {
			key := strings.ToUpper(trait.Crop) + "\x00" + strings.ToUpper(trait.Variety)
			if first, dup := seen[key]; dup {
				issues = append(issues, RowValidationIssue{
					Row:    line,
					Field:  ColVariety,
					Value:  trait.Crop + "-" + trait.Variety,
					Reason: fmt.Sprintf("%s %d", duplicateReason, first),
				})
			} else {
				seen[key] = line
			}
		}

		if len(issues) > 0 {
			report.Issues = append(report.Issues, issues...)
			report.RejectedRows++
			continue
		}
		report.Traits = append(report.Traits, trait)
	}

	return report, nil
}

// indexColumns maps required column names to record positions. Names are
// matched case-insensitively after trimming spaces and a UTF-8 BOM.
func indexColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		key := strings.ToLower(name)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	cols := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		idx, ok := positions[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		cols[col] = idx
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return cols, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// rowReader collects issues while reading typed fields of one record.
type rowReader struct {
	line   int
	record []string
	cols   map[string]int
	issues []RowValidationIssue
}

func (r *rowReader) raw(col string) string {
	idx := r.cols[col]
	if idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

func (r *rowReader) fail(col, value, reason string) {
	r.issues = append(r.issues, RowValidationIssue{Row: r.line, Field: col, Value: value, Reason: reason})
}

func (r *rowReader) text(col string) string {
	v := r.raw(col)
	if v == "" {
		r.fail(col, "", "must not be empty")
	}
	return v
}

func (r *rowReader) ph(col string) (float64, bool) {
	v := r.raw(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		r.fail(col, v, "is not a number")
		return 0, false
	}
	if f < 0 || f > 14 {
		r.fail(col, v, "must be in [0, 14]")
		return f, false
	}
	return f, true
}

func (r *rowReader) days(col string) int {
	v := r.raw(col)
	n, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			r.fail(col, v, "is not an integer")
			return 0
		}
		n = int(f)
	}
	if n <= 0 {
		r.fail(col, v, "must be positive")
	}
	return n
}

func (r *rowReader) list(col, sep string, normalize func(string) string) []string {
	v := r.raw(col)
	if v == "" {
		r.fail(col, "", "must not be empty")
		return nil
	}
	parts := strings.Split(v, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = normalize(p)
		if p == "" {
			r.fail(col, v, "contains empty values")
			return nil
		}
		out = append(out, p)
	}
	return out
}

func (r *rowReader) flag(col string) bool {
	v := r.raw(col)
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	case "", "0", "false", "no", "n":
		return false
	default:
		r.fail(col, v, "must be 0 or 1")
		return false
	}
}

func parseRow(line int, record []string, cols map[string]int) (seedrec.VarietyTrait, []RowValidationIssue) {
	r := &rowReader{line: line, record: record, cols: cols}

	t := seedrec.VarietyTrait{
		Crop:            r.text(ColCrop),
		Variety:         r.text(ColVariety),
		TexturesAllowed: r.list(ColTextures, ",", seedrec.NormalizeTexture),
		MaturityDays:    r.days(ColMaturity),
		ZoneCodes:       r.list(ColZones, "|", strings.TrimSpace),
		HeatTol:         r.flag(ColHeatTol),
		FloodTol:        r.flag(ColFloodTol),
		DroughtTol:      r.flag(ColDroughtTol),
		Notes:           r.raw(ColNotes),
	}

	var minOK, maxOK bool
	t.PHMin, minOK = r.ph(ColPHMin)
	t.PHMax, maxOK = r.ph(ColPHMax)
	if minOK && maxOK && t.PHMin > t.PHMax {
		r.fail(ColPHMin, fmt.Sprintf("%g > %g", t.PHMin, t.PHMax), "must not exceed pH_max")
	}

	return t, r.issues
}
