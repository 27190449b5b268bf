// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

/*
Package supervisor provides process supervision for Lodestar using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running services in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

# Overview

The supervisor tree organizes services into two layers for failure isolation:

	RootSupervisor ("lodestar")
	├── DataSupervisor ("data-layer")
	│   └── CatalogLoader (periodic refresh, cache persistence)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A crash in the catalog refresh loop doesn't affect request serving
  - The API keeps answering from the last installed snapshot while the
    data layer restarts

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Supervision events are logged through sutureslog, bridged onto the
application's zerolog output via logging.NewSlogLogger.
*/
package supervisor
