// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

// Command seedrec ranks seed varieties from the command line.
package main

import (
	"os"

	"github.com/tomtom215/seedrec/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
