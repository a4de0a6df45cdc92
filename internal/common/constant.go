// Package common contains shared constants and sentinel errors used across
// the Piauí Eventos client.
package common

// Keys of the local key/value store. They mirror what the web front end kept
// in localStorage.
const (
	StorageKeyUser            = "user"
	StorageKeyRememberedEmail = "rememberedEmail"
	StorageKeyAccessToken     = "accessToken"
	StorageKeyCookies         = "cookies"
)

// Outbound header names.
const (
	RequestIDHeaderName     = "X-Request-ID"
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
)

// Route paths the auth layer redirects to.
const (
	LoginRoute        = "/login"
	UnauthorizedRoute = "/unauthorized"
	ReturnURLParam    = "returnUrl"
)
