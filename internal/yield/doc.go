// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package yield serves per-crop yield predictions from model artifacts on disk.

# Artifacts

Each crop has two JSON files in the artifacts directory, named with the
upper-case crop code:

	model_RICE.json       ensemble of linear estimators
	RICE_features.json    {"feature_columns": ["temperature", ...]}

rf_model_RICE.json is accepted in place of model_RICE.json. A model file
looks like:

	{
	  "crop": "RICE",
	  "kind": "ensemble",
	  "estimators": [
	    {"intercept": 1.2, "coefficients": {"temperature": 0.04, "maturity_days": 0.01}}
	  ]
	}

The prediction is the mean over estimators. The uncertainty is their
population standard deviation, absent for a single estimator.

# Gateway

Gateway implements seedrec.YieldGateway:

  - decoded models live in an LRU cache keyed by crop
  - concurrent misses for the same crop share one load (singleflight)
  - loads run behind a circuit breaker
  - predictions per crop are throttled with a token bucket
  - every prediction is bounded by a timeout

Any failure becomes an Unavailable outcome. Predict never returns an error.
*/
package yield
