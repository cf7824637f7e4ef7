// Package server wires the addon framework into an HTTP server.
//
// Server Lifecycle:
//  1. Load configuration from the environment
//  2. Initialize logger and metrics
//  3. Resolve the directory layout and build the addon registry
//  4. Run a discovery pass over the addon roots
//  5. Create the session manager and service factory
//  6. Setup HTTP routes and middleware
//  7. Serve until the context is cancelled, then shut down gracefully
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv.Registry().MustRegister("twitter", registry.Capabilities{API: newTwitterAPI})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
