// Package router maps paths to views and runs their guards. Every
// navigation gets its own context; starting a new one cancels the previous
// attempt, so a slow guard can never commit a stale result.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/alphasolutions/piauieventos-cli/internal/client/guard"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
	"github.com/alphasolutions/piauieventos-cli/internal/logging"
)

var (
	ErrNavigationCancelled = errors.New("navigation cancelled")
	ErrTooManyRedirects    = errors.New("too many redirects")
	ErrNoRoute             = errors.New("no route")
)

const maxRedirects = 8

// Route names, used by the CLI to pick a view.
const (
	ViewEvents       = "events"
	ViewEvent        = "event"
	ViewLogin        = "login"
	ViewRegister     = "register"
	ViewMyEvents     = "my-events"
	ViewCreateEvent  = "create-event"
	ViewSettings     = "settings"
	ViewAdmin        = "admin"
	ViewUnauthorized = "unauthorized"
)

// Route binds a path pattern to a view. Patterns use ":name" for a path
// parameter and "**" for anything. A route with RedirectTo only redirects.
type Route struct {
	Pattern    string
	Name       string
	Guard      guard.Guard
	RedirectTo string
}

// Navigation is a committed navigation.
type Navigation struct {
	Route  Route
	URL    string
	Params map[string]string
	Query  url.Values
}

// Guards bundles the guard instances the default routes use.
type Guards struct {
	Auth  guard.Guard
	Soft  guard.Guard
	Admin guard.Guard
}

// DefaultRoutes is the application route table.
func DefaultRoutes(g Guards) []Route {
	return []Route{
		{Pattern: "/", RedirectTo: "/events"},
		{Pattern: "/login", Name: ViewLogin},
		{Pattern: "/register", Name: ViewRegister},
		{Pattern: "/events", Name: ViewEvents, Guard: g.Soft},
		{Pattern: "/event/:id", Name: ViewEvent, Guard: g.Soft},
		{Pattern: "/my-events", Name: ViewMyEvents, Guard: g.Auth},
		{Pattern: "/create-event", Name: ViewCreateEvent, Guard: g.Auth},
		{Pattern: "/settings", Name: ViewSettings, Guard: g.Auth},
		{Pattern: "/admin", Name: ViewAdmin, Guard: g.Admin},
		{Pattern: "/unauthorized", Name: ViewUnauthorized},
		{Pattern: "**", RedirectTo: "/events"},
	}
}

type Router struct {
	routes []Route
	log    logging.Logger

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
	seq     uint64
}

func New(routes []Route, log logging.Logger) *Router {
	if log == nil {
		log = logging.Nop()
	}
	return &Router{routes: routes, log: log.With("component", "router")}
}

// Current returns the URL of the last committed navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate resolves target, runs guards and follows redirects. It fails
// with ErrNavigationCancelled when ctx ends or a newer navigation starts
// before this one commits.
func (r *Router) Navigate(ctx context.Context, target string) (*Navigation, error) {
	navCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	defer r.finish(seq, cancel)

	for hops := 0; hops <= maxRedirects; hops++ {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", target, err)
		}
		path := u.Path
		if path == "" {
			path = "/"
		}

		route, params, ok := r.match(path)
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, ErrNoRoute)
		}
		if route.RedirectTo != "" {
			target = route.RedirectTo
			continue
		}

		if route.Guard != nil {
			d := route.Guard.Check(navCtx, u.RequestURI())
			r.log.Debug(navCtx, "guard decision", "target", u.RequestURI(), "outcome", d.Outcome.String())
			switch d.Outcome {
			case guard.Allowed:
			case guard.Cancelled:
				return nil, ErrNavigationCancelled
			default:
				target = d.Redirect
				continue
			}
		}

		nav := &Navigation{Route: route, URL: u.RequestURI(), Params: params, Query: u.Query()}
		if !r.commit(navCtx, seq, nav.URL) {
			return nil, ErrNavigationCancelled
		}
		return nav, nil
	}
	return nil, ErrTooManyRedirects
}

func (r *Router) commit(ctx context.Context, seq uint64, target string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq || ctx.Err() != nil {
		return false
	}
	r.current = target
	return true
}

func (r *Router) finish(seq uint64, cancel context.CancelFunc) {
	cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq == r.seq {
		r.cancel = nil
	}
}

func (r *Router) match(path string) (Route, map[string]string, bool) {
	segs := split(path)
	for _, rt := range r.routes {
		if rt.Pattern == "**" {
			return rt, nil, true
		}
		pat := split(rt.Pattern)
		if len(pat) != len(segs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, p := range pat {
			switch {
			case strings.HasPrefix(p, ":"):
				params[p[1:]] = segs[i]
			case p != segs[i]:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok {
			return rt, params, true
		}
	}
	return Route{}, nil, false
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// LoginURL is the login route carrying returnURL.
func LoginURL(returnURL string) string {
	if returnURL == "" || strings.HasPrefix(returnURL, common.LoginRoute) {
		return common.LoginRoute
	}
	q := url.Values{common.ReturnURLParam: {returnURL}}
	return common.LoginRoute + "?" + q.Encode()
}

// RedirectToLogin sends the user to the login view, remembering where they
// were.
func (r *Router) RedirectToLogin(ctx context.Context) (*Navigation, error) {
	return r.Navigate(ctx, LoginURL(r.Current()))
}
