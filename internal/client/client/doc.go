// Package client talks to the Piauí Eventos REST backend.
//
// # Overview
//
// The package provides:
//  1. The Client contract and its HTTP implementation (HTTPClient). Each
//     endpoint method tags its request with a Policy that tells the
//     interceptor how to treat authentication failures.
//  2. Interceptor, an http.RoundTripper that owns credentials: it attaches
//     the session cookies (and an optional bearer token), stores Set-Cookie
//     answers, and recovers protected calls from 401/403 with one refresh
//     and one replay.
//  3. PersistentJar and TokenStore, which keep cookies and the bearer token
//     in the local store so a session survives restarts.
//
// # Error Handling
//
// Non-2xx answers and transport failures surface as *APIError. Its Kind maps
// onto the sentinels in internal/common, so callers match with errors.Is:
// ErrSessionExpired, ErrForbidden, ErrUnavailable, ErrValidation, plus
// ErrNotFound and ErrConflict for 404 and 409.
//
// # Concurrency
//
// HTTPClient, Interceptor, PersistentJar and TokenStore are safe for
// concurrent use. Concurrent protected calls failing with 401 share a single
// refresh.
package client
