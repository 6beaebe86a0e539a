// Package server provides HTTP routing, middleware and a context-aware server for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [ChiRouter] implements it on a chi mux, so paths can carry URL parameters such as /api/watchlist/{id}.
//
// [Middleware] is the standard func(http.Handler) http.Handler shape; [RequestLogger], [Recoverer]
// and [RequestID] are provided.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Server
//
// [Server] serves until its context is cancelled and then shuts down gracefully.
package server
