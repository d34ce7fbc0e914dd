// Package observability builds the service's structured logger.
//
// Every component receives a *zap.Logger; request-scoped fields (request id,
// subject) are attached by the middleware package.
package observability
