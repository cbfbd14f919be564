// Package middleware holds the Echo middleware of the API: request ids,
// New Relic tracing, the request-scoped logger, Clerk authentication,
// rate limiting and the global error handler.
package middleware
