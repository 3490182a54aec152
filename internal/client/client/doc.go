// Package client talks to the game server.
//
// Client is the API contract; HTTPClient implements it over REST/JSON. Every
// request carries the session credential (when there is one) as a bearer
// token and a fresh X-Request-ID. Outbound calls share one rate limiter.
//
// # Error Handling
//
// Failures map to sentinels matched with errors.Is:
//
//	transport error, 502, 503, 504  ErrUnavailable
//	401, 403                        ErrUnauthorized
//	404                             ErrNotFound
//	any other non-2xx               *StatusError (matches ErrRequestFailed)
//
// A cancelled context surfaces as ErrUnavailable wrapping context.Canceled.
package client
