// Package http implements the HTTP handlers for the portfolio beta
// service. Handlers stay thin: they parse multipart uploads and query
// parameters, delegate normalization and reconciliation to the core
// packages, and render JSON responses. Errors surface as RFC 7807
// problem documents through the shared ErrorHandler.
//
// A request to POST /api/portfolio/beta flows through these layers:
//
//	Chi Router → Middleware → PortfolioHandler → normalize.Pipeline
//	                                          → portfolio.Engine
//
// Any uploaded file that fails normalization aborts the whole batch
// with a per-file problem response; per-ISIN resolution failures never
// do, they appear as error records inside a successful response body.
package http
