// Package services defines the [Provider] interface for the external movie database and implements it for OMDb.
//
// # HTTP Client
//
// [FetchWithTimeout] issues a single GET and aborts it when the response does not complete in time.
// A timeout is reported as [shared.ErrTimeout] so callers can tell it apart from other transport failures.
// There are no retries.
//
// # OMDb Implementation
//
// [OMDbService] talks to https://www.omdbapi.com/ with an API key in the query string:
//   - Search: ?apikey=K&type=movie&s=<query>
//   - Details: ?apikey=K&i=<imdbID>
//
// Requests are paced by a [rate.Limiter] (omdb.requests_per_second) and concurrent
// detail lookups for the same identifier are collapsed with [singleflight.Group].
//
// # Error Handling
//
// Failures map onto the error taxonomy used by the presentation layers:
//   - [*HTTPStatusError] : non-2xx status, rendered as "Network error: <code> <text>"
//   - [*ProviderError] : Response "False", carries the provider's Error string
//   - [shared.ErrTimeout] : no response within the budget
//   - [shared.ErrAPIRequest] : malformed body or limiter failure
package services
