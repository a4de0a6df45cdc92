// Package cli is the interactive terminal client of Piauí Eventos.
//
// App wires the local store, the credential-carrying transport, the
// services and the router. Every command that shows a page goes through the
// router, so the same guards decide what a visitor, a signed-in user and an
// administrator can open. A guard redirect is rendered like any other view:
// a protected page opened while signed out lands on the login prompt and
// returns to the page afterwards.
package cli
