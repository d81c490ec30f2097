// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package cache provides a thread-safe, generic LRU cache with optional TTL.

The yield gateway keeps decoded model artifacts in an LRU keyed by the
upper-case crop code, so a handful of hot crops stay resident while rarely
requested crops are evicted.

# Usage

	models := cache.NewLRU[string, *yield.Predictor](8, 0)
	models.Add("RICE", p)
	if p, ok := models.Get("RICE"); ok {
	    ...
	}

A TTL of zero disables expiry. Expired entries are removed lazily on access
or in bulk with CleanupExpired.

# Thread Safety

All methods are safe for concurrent use. Get updates recency order and
therefore takes the write lock; Contains and Len only read.
*/
package cache
