// Package app wires the portfolio beta service together: it loads
// configuration, initializes the structured logger, constructs the
// market data providers and the reconciliation engine, mounts the HTTP
// routes behind the middleware chain, and runs the server with
// graceful shutdown.
//
// The wiring is plain constructor injection. Application owns the
// long-lived pieces (config, logger, providers, engine, server); the
// handlers receive only the interfaces they consume.
package app
