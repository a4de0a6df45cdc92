// Package guard decides whether a navigation may proceed. Guards never
// navigate themselves; they return a Decision the router acts on.
package guard

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
	"github.com/alphasolutions/piauieventos-cli/internal/logging"
)

type Outcome int

const (
	Allowed Outcome = iota
	RedirectLogin
	RedirectUnauthorized
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Decision is a guard's verdict. Redirect is set for the redirect outcomes.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

func Allow() Decision { return Decision{Outcome: Allowed} }

func Cancel() Decision { return Decision{Outcome: Cancelled} }

// ToLogin redirects to the login route, remembering target.
func ToLogin(target string) Decision {
	q := url.Values{common.ReturnURLParam: {target}}
	return Decision{Outcome: RedirectLogin, Redirect: common.LoginRoute + "?" + q.Encode()}
}

func ToUnauthorized() Decision {
	return Decision{Outcome: RedirectUnauthorized, Redirect: common.UnauthorizedRoute}
}

// Guard checks a navigation to target, the path plus query the user asked
// for.
type Guard interface {
	Check(ctx context.Context, target string) Decision
}

// Auth is the part of the auth service the guards need.
type Auth interface {
	IsAuthenticated(ctx context.Context) bool
	FetchCurrentUser(ctx context.Context) (*models.User, error)
	RefreshToken(ctx context.Context) (*models.User, error)
	HasRole(role string) bool
}

// AuthGuard admits signed-in users. A user known locally is admitted at
// once and the session is re-validated in the background; otherwise the
// backend is probed, with one refresh attempt on 401.
type AuthGuard struct {
	auth    Auth
	log     logging.Logger
	limiter *rate.Limiter
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAuthGuard builds the guard. Background re-validation runs at most once
// per interval (0 means on every check) and is bounded by timeout.
func NewAuthGuard(auth Auth, interval, timeout time.Duration, log logging.Logger) *AuthGuard {
	if log == nil {
		log = logging.Nop()
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &AuthGuard{
		auth:    auth,
		log:     log.With("component", "guard"),
		limiter: rate.NewLimiter(limit, 1),
		timeout: timeout,
	}
}

func (g *AuthGuard) Check(ctx context.Context, target string) Decision {
	if ctx.Err() != nil {
		return Cancel()
	}

	if g.auth.IsAuthenticated(ctx) {
		g.revalidate()
		return Allow()
	}

	_, err := g.auth.FetchCurrentUser(ctx)
	if ctx.Err() != nil {
		return Cancel()
	}
	if err == nil {
		return Allow()
	}

	switch client.StatusOf(err) {
	case http.StatusUnauthorized:
		_, rerr := g.auth.RefreshToken(ctx)
		if rerr == nil {
			g.log.Info(ctx, "session refreshed by guard", "target", target)
			return Allow()
		}
		if ctx.Err() != nil {
			return Cancel()
		}
		g.log.Info(ctx, "guard refresh failed", "target", target, "error", rerr)
	case http.StatusForbidden:
		g.log.Info(ctx, "probe forbidden", "target", target)
	default:
		g.log.Warn(ctx, "probe failed", "target", target, "error", err)
	}
	return ToLogin(target)
}

func (g *AuthGuard) revalidate() {
	if !g.limiter.Allow() {
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		ctx := context.Background()
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		if _, err := g.auth.FetchCurrentUser(ctx); err != nil {
			g.log.Warn(ctx, "background session check failed", "error", err)
		}
	}()
}

// Wait blocks until background re-validations finish.
func (g *AuthGuard) Wait() {
	g.wg.Wait()
}

// SoftAuthGuard runs the same session resolution as inner but admits the
// navigation whatever it decides. Public pages use it so a signed-in user
// is revalidated or restored without being required.
type SoftAuthGuard struct {
	inner Guard
}

func NewSoftAuthGuard(inner Guard) *SoftAuthGuard {
	return &SoftAuthGuard{inner: inner}
}

func (g *SoftAuthGuard) Check(ctx context.Context, target string) Decision {
	if d := g.inner.Check(ctx, target); d.Outcome == Cancelled {
		return d
	}
	return Allow()
}

// RoleGuard runs the auth guard, then requires role, given as a backend
// code or a display label.
type RoleGuard struct {
	auth  Auth
	inner Guard
	role  string
}

func NewRoleGuard(auth Auth, inner Guard, role string) *RoleGuard {
	return &RoleGuard{auth: auth, inner: inner, role: role}
}

func (g *RoleGuard) Check(ctx context.Context, target string) Decision {
	if d := g.inner.Check(ctx, target); d.Outcome != Allowed {
		return d
	}
	if g.auth.HasRole(g.role) {
		return Allow()
	}
	return ToUnauthorized()
}
