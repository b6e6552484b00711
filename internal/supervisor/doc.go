// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

/*
Package supervisor runs the long-lived services of the server under a
suture v4 supervisor tree.

	RootSupervisor ("insight")
	├── FeedSupervisor ("feed-layer")
	│   ├── FeedHubService (raw)
	│   └── FeedHubService (global)
	├── IngestSupervisor ("ingest-layer")
	│   └── IngestPipelineService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted by its layer supervisor; repeated failures
trigger FailureBackoff. While the ingest pipeline is restarting POST /api
answers 503 instead of accepting events that would be lost.

Supervisor events (starts, failures, backoff) are logged through sutureslog
on an slog.Logger; main passes logging.NewSlogLogger() so they end up in the
zerolog output.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddFeedService(services.NewFeedHubService(rawHub))
	tree.AddIngestService(services.NewIngestPipelineService(pipeline))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)

The event store is not supervised. It is an embedded database opened once
by main and closed after the tree has stopped.
*/
package supervisor
