// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

// Package cli implements the seedrec command line tool.
package cli

import (
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/seedrec/internal/config"
	"github.com/tomtom215/seedrec/internal/logging"
	"github.com/tomtom215/seedrec/internal/seedrec"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the seedrec command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "seedrec",
		Short: "Seed variety recommendations from a traits table",
		Long: `seedrec - rank seed varieties for a field

  seedrec recommend --traits traits.csv --crop RICE --ph 6.5 --texture "clay loam" --season 120 --zone E2
  seedrec validate traits.csv
  seedrec models --artifacts models/`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file for scoring weights and tolerances")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(newRecommendCmd(opts))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newModelsCmd())
	return root
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCmd().Execute()
}

// scoringConfig returns the scoring section of --config, or the defaults
// when no file was given.
func (o *rootOptions) scoringConfig() (*seedrec.Config, error) {
	if o.configPath == "" {
		return seedrec.DefaultConfig(), nil
	}
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, err
	}
	return &cfg.Scoring, nil
}

func logger() zerolog.Logger {
	return logging.WithComponent("cli")
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
