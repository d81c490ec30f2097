// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/seedrec/internal/seedrec"
	"github.com/tomtom215/seedrec/internal/traits"
	"github.com/tomtom215/seedrec/internal/yield"
)

type recommendOptions struct {
	root      *rootOptions
	traits    string
	artifacts string
	query     seedrec.QueryContext
	json      bool
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	o := &recommendOptions{root: root}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank varieties of a crop for a field",
		Long: `Rank the varieties of a crop for the given soil, season and zone.

With --hybrid and --artifacts the suitability score is blended with
normalized yield predictions. Without a model for the crop the ranking
falls back to suitability alone.

Examples:
  seedrec recommend --traits traits.csv --crop RICE --ph 6.5 --texture "clay loam" --season 120 --zone E2 --heat
  seedrec recommend --traits traits.csv --crop WHEAT --ph 7 --texture loam --season 140 --zone N1 --hybrid --artifacts models/ --json`,
		Args: cobra.NoArgs,
		RunE: o.run,
	}

	f := cmd.Flags()
	f.StringVar(&o.traits, "traits", "data/traits.csv", "traits CSV file")
	f.StringVar(&o.artifacts, "artifacts", "", "yield model artifacts directory")
	f.StringVar(&o.query.Crop, "crop", "", "crop code, e.g. RICE")
	f.Float64Var(&o.query.SoilPH, "ph", 0, "soil pH (0-14)")
	f.StringVar(&o.query.SoilTexture, "texture", "", "soil texture, e.g. \"clay loam\"")
	f.IntVar(&o.query.SeasonLenDays, "season", 0, "season length in days")
	f.StringVar(&o.query.ZoneCode, "zone", "", "agro-climatic zone code")
	f.BoolVar(&o.query.Risk.Heat, "heat", false, "heat risk")
	f.BoolVar(&o.query.Risk.Flood, "flood", false, "flood risk")
	f.BoolVar(&o.query.Risk.Drought, "drought", false, "drought risk")
	f.IntVarP(&o.query.TopK, "top-k", "k", 0, "number of results (default from config)")
	f.BoolVar(&o.query.UseHybrid, "hybrid", false, "blend in yield predictions")
	f.BoolVar(&o.json, "json", false, "print the full result as JSON")

	for _, name := range []string{"crop", "ph", "texture", "season", "zone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (o *recommendOptions) run(cmd *cobra.Command, _ []string) error {
	cfg, err := o.root.scoringConfig()
	if err != nil {
		return err
	}

	repo := traits.NewRepository(o.traits, logger())
	if _, _, err := repo.Load(); err != nil {
		return err
	}

	var gateway seedrec.YieldGateway
	if o.artifacts != "" {
		gateway = yield.NewGateway(yield.NewStore(o.artifacts), yield.DefaultOptions(), logger())
	}

	engine, err := seedrec.NewEngine(cfg, repo, gateway, logger())
	if err != nil {
		return err
	}

	q := o.query
	if q.TopK == 0 {
		q.TopK = cfg.Limits.DefaultK
	}
	result, err := engine.Recommend(cmd.Context(), q)
	if err != nil {
		return err
	}

	if o.json {
		return writeJSON(cmd, result)
	}
	return printResult(cmd.OutOrStdout(), result)
}

func printResult(w io.Writer, result *seedrec.Result) error {
	if _, err := fmt.Fprintln(w, result.Message); err != nil {
		return err
	}
	if len(result.Recommendations) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVARIETY\tSCORE\tSUITABILITY\tYIELD\tREASONS")
	for i, r := range result.Recommendations {
		yhat := "-"
		if r.YHat != nil {
			yhat = fmt.Sprintf("%.2f", *r.YHat)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%s\t%s\n", i+1, r.Variety, r.FinalScore, r.Suitability, yhat, r.Reasons)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if result.Metadata.UsedYieldModel {
		_, err := fmt.Fprintln(w, "Yield model blended into scores.")
		return err
	}
	return nil
}
