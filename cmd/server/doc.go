// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package main is the entry point for the seedrec HTTP server.

The server ranks seed varieties of a crop for a field described by soil pH,
soil texture, season length, agro-climatic zone and climate risk flags. It
can blend in predictions from trained yield models when an artifacts
directory is configured.

# Application Architecture

	RootSupervisor ("seedrec")
	├── DataSupervisor ("data-layer")
	│   ├── Traits watcher (fsnotify + optional poll)
	│   └── Config watcher (when a config file is found)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Startup order:

 1. Configuration: koanf v2 defaults, YAML file, environment
 2. Logging: zerolog, JSON or console
 3. Traits table: loaded once; startup fails if it does not parse
 4. Yield gateway: only when yield.artifacts_dir is set
 5. Engine, handlers, router
 6. Supervisor tree until SIGINT or SIGTERM

# Configuration

	Priority: Environment variables > Config file > Defaults

The config file is CONFIG_PATH or the first of config.yaml,
config/config.yaml and /etc/seedrec/config.yaml that exists.

Common environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	TRAITS_PATH=data/traits.csv
	TRAITS_WATCH=true
	YIELD_ARTIFACTS_DIR=models   # empty disables hybrid scoring
	SCORING_WEIGHT_PH=0.35       # the four weights must sum to 1

Edits to the scoring section of the config file apply without a restart.
An edit that fails validation is logged and the running config is kept.
*/
package main
