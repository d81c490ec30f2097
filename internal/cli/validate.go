// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/seedrec/internal/traits"
)

// ErrInvalidTraits is returned by validate when the file has errors.
var ErrInvalidTraits = errors.New("traits file is invalid")

func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <traits.csv>",
		Short: "Check a traits CSV without loading it",
		Long: `Check a traits CSV and report rejected rows.

Missing columns and rows the server would reject are errors. Duplicate
varieties and unusual maturity values are warnings. The command exits
non-zero when there are errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			report, err := traits.Validate(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			if asJSON {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, e := range report.Errors {
					fmt.Fprintf(out, "error: %s\n", e)
				}
				for _, w := range report.Warnings {
					fmt.Fprintf(out, "warning: %s\n", w)
				}
				fmt.Fprintln(out, report.Message)
			}

			if !report.Valid {
				return ErrInvalidTraits
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
