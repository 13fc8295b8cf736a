// Package server provides the HTTP JSON API of mixtape: routing, middleware and handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns. [BasicRouter.With] derives a child
// router that shares the mux but appends extra middleware, which is how authenticated and rate-limited routes
// are grouped.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// The health check and the uploads file server are registered this way.
//
// # Authentication
//
// [RequireAuth] resolves the bearer token of every playlist route and logout. The resolved [Identity] is read
// back with [IdentityFrom]. Requests without a valid token receive 401 {"error":"Unauthorized"}.
//
// # Errors
//
// Handlers map service errors onto statuses with [StatusFor] and answer {"error": message}.
//
// # Observability
//
// Every route passes request ID, real IP, request logging, panic recovery, CORS and Prometheus middleware.
// [Metrics] also records domain events reported by the services and is exposed at /metrics.
package server
