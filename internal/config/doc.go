// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package config loads seedrec configuration with koanf v2.

Layers, lowest precedence first:

 1. built-in defaults (structs provider)
 2. YAML file from CONFIG_PATH, ./config.yaml, ./config/config.yaml or
    /etc/seedrec/config.yaml
 3. environment variables (see envMappings)

Maps merge key by key across layers, except scoring.texture_synonyms: a
file that sets it replaces the default texture table entirely, so tokens
left out of the file have no adjacency.

# Example File

	server:
	  port: 8080
	  cors_origins: ["https://fields.example.org"]
	traits:
	  path: /data/traits.csv
	  watch: true
	yield:
	  artifacts_dir: /data/models
	  timeout: 2s
	scoring:
	  weights: {ph: 0.35, texture: 0.25, maturity: 0.25, zone: 0.15}
	  tolerances: {ph_falloff: 0.5, maturity_window: 60, zone_penalty: 0.5}
	  hybrid_weights: {yield_weight: 0.6, suitability_weight: 0.4}
	  texture_synonyms:
	    clay_loam: [loam, silty_clay_loam, sandy_clay_loam]

# Validation

Structural rules are validator tags on the section structs. The scoring
section is checked by seedrec.Config.Validate, so weights that do not sum
to 1 within 1e-6 produce a seedrec.ConfigError and the process refuses to
start. Weights are never renormalized.

# Hot Reload

WatchConfigFile reloads the file on change (fsnotify through the koanf file
provider). The server applies only the scoring section of a reloaded
config; an invalid file is logged and the previous config stays live.
*/
package config
