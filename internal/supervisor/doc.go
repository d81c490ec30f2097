// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package supervisor runs the server's long-lived services under suture v4.

# Tree

	RootSupervisor ("seedrec")
	├── DataSupervisor ("data-layer")
	│   ├── TraitsWatchService (traits CSV hot reload)
	│   └── ConfigWatchService (if a config file is in use)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A watcher that fails is restarted with backoff without touching the HTTP
server, which keeps serving the last good traits snapshot and scoring
config.

Supervisor events are logged through sutureslog into the zerolog adapter
from the logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewTraitsWatchService(repo, cfg.Traits, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, logger))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
