package router

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphasolutions/piauieventos-cli/internal/client/guard"
)

type staticGuard guard.Decision

func (g staticGuard) Check(context.Context, string) guard.Decision { return guard.Decision(g) }

// blockingGuard waits for release or cancellation.
type blockingGuard struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingGuard() *blockingGuard {
	return &blockingGuard{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *blockingGuard) Check(ctx context.Context, target string) guard.Decision {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return guard.Allow()
	case <-ctx.Done():
		return guard.Cancel()
	}
}

func routes(auth, admin guard.Guard) []Route {
	return DefaultRoutes(Guards{Auth: auth, Soft: guard.NewSoftAuthGuard(staticGuard(guard.Allow())), Admin: admin})
}

func TestNavigate_RootRedirectsToEvents(t *testing.T) {
	r := New(routes(staticGuard(guard.Allow()), staticGuard(guard.Allow())), nil)

	nav, err := r.Navigate(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, ViewEvents, nav.Route.Name)
	assert.Equal(t, "/events", r.Current())
}

func TestNavigate_WildcardRedirectsToEvents(t *testing.T) {
	r := New(routes(staticGuard(guard.Allow()), staticGuard(guard.Allow())), nil)

	nav, err := r.Navigate(context.Background(), "/does/not/exist")
	require.NoError(t, err)
	assert.Equal(t, ViewEvents, nav.Route.Name)
}

func TestNavigate_Params(t *testing.T) {
	r := New(routes(nil, nil), nil)

	nav, err := r.Navigate(context.Background(), "/event/42?tab=map")
	require.NoError(t, err)
	assert.Equal(t, ViewEvent, nav.Route.Name)
	assert.Equal(t, "42", nav.Params["id"])
	assert.Equal(t, "map", nav.Query.Get("tab"))
	assert.Equal(t, "/event/42?tab=map", nav.URL)
}

func TestNavigate_GuardRedirectToLogin(t *testing.T) {
	r := New(routes(staticGuard(guard.ToLogin("/my-events")), nil), nil)

	nav, err := r.Navigate(context.Background(), "/my-events")
	require.NoError(t, err)
	assert.Equal(t, ViewLogin, nav.Route.Name)
	assert.Equal(t, "/my-events", nav.Query.Get("returnUrl"))
}

func TestNavigate_RoleGuardUnauthorized(t *testing.T) {
	r := New(routes(nil, staticGuard(guard.ToUnauthorized())), nil)

	nav, err := r.Navigate(context.Background(), "/admin")
	require.NoError(t, err)
	assert.Equal(t, ViewUnauthorized, nav.Route.Name)
}

func TestNavigate_RedirectLoop(t *testing.T) {
	loop := []Route{
		{Pattern: "/a", Name: "a", Guard: staticGuard(guard.Decision{Outcome: guard.RedirectLogin, Redirect: "/b"})},
		{Pattern: "/b", Name: "b", Guard: staticGuard(guard.Decision{Outcome: guard.RedirectLogin, Redirect: "/a"})},
	}
	r := New(loop, nil)

	_, err := r.Navigate(context.Background(), "/a")
	require.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestNavigate_NoRoute(t *testing.T) {
	r := New([]Route{{Pattern: "/only", Name: "only"}}, nil)

	_, err := r.Navigate(context.Background(), "/other")
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestNavigate_NewNavigationCancelsPrevious(t *testing.T) {
	slow := newBlockingGuard()
	r := New(routes(slow, nil), nil)

	errc := make(chan error, 1)
	go func() {
		_, err := r.Navigate(context.Background(), "/my-events")
		errc <- err
	}()
	<-slow.entered

	nav, err := r.Navigate(context.Background(), "/events")
	require.NoError(t, err)
	assert.Equal(t, ViewEvents, nav.Route.Name)

	select {
	case err := <-errc:
		require.ErrorIs(t, err, ErrNavigationCancelled)
	case <-time.After(2 * time.Second):
		t.Fatal("stale navigation was not cancelled")
	}
	assert.Equal(t, "/events", r.Current())
}

func TestNavigate_CallerCancellation(t *testing.T) {
	slow := newBlockingGuard()
	r := New(routes(slow, nil), nil)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-slow.entered
		cancel()
	}()

	_, err := r.Navigate(ctx, "/settings")
	require.ErrorIs(t, err, ErrNavigationCancelled)
	assert.Empty(t, r.Current())
}

func TestRedirectToLogin_RemembersCurrent(t *testing.T) {
	r := New(routes(nil, nil), nil)
	_, err := r.Navigate(context.Background(), "/event/3")
	require.NoError(t, err)

	nav, err := r.RedirectToLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ViewLogin, nav.Route.Name)
	assert.Equal(t, "/event/3", nav.Query.Get("returnUrl"))

	assert.Equal(t, "/login", LoginURL(nav.URL), "login never returns to itself")
	assert.Equal(t, "/login", LoginURL(""))
}
