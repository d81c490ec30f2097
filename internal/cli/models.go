// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/seedrec/internal/yield"
)

func newModelsCmd() *cobra.Command {
	var (
		dir    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List crops with trained yield models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			crops, err := yield.NewStore(dir).AvailableCrops()
			if err != nil {
				return err
			}
			if crops == nil {
				crops = []string{}
			}

			if asJSON {
				return writeJSON(cmd, map[string]interface{}{
					"available_crops": crops,
					"total_models":    len(crops),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d trained yield models\n", len(crops))
			for _, c := range crops {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "artifacts", "models", "yield model artifacts directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
