// Package config provides centralized configuration management for the
// portfolio beta service. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PFB_* for namespacing:
//
//	PFB_SERVER_PORT=8080
//	PFB_LOGGING_LEVEL=info
//	PFB_PROVIDERS_FUND_API_URL=https://api.mfapi.in
//	PFB_NORMALIZE_HEADER_POLICY=label-class
//	PFB_PORTFOLIO_AGGREGATION_POLICY=additive
//
// # Tunable Behavior
//
// Two behavioral switches live here rather than in code because they
// represent divergent business rules, not implementation details:
//
//   - Normalize.HeaderPolicy: how the header row of an uploaded holding
//     sheet is detected ("label-class", or the legacy "keyword-count"
//     rule kept for historical fixtures).
//   - Portfolio.AggregationPolicy: how explicit quantities and monetary
//     amounts combine for one security ("additive" derives extra units
//     from the amount, "quantity-wins" discards the amount whenever a
//     positive quantity exists).
package config
