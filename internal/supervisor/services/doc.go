// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package services provides suture.Service wrappers for the server.

Each wrapper implements

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture can name it in logs. Serve returns ctx.Err()
on a clean stop; any other error makes the supervisor restart it.

HTTPServerService runs ListenAndServe and drains on cancel.

TraitsWatchService reloads the traits table on fsnotify events for the
CSV, debounced, and optionally on a poll timer.

ConfigWatchService re-reads the YAML config through koanf and pushes the
scoring section to the engine. Invalid edits are logged and ignored.
*/
package services
