package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/alphasolutions/piauieventos-cli/internal/common"
	"github.com/alphasolutions/piauieventos-cli/internal/logging"
)

// RefreshFunc renews the server session. The interceptor calls it at most
// once per failed protected request.
type RefreshFunc func(ctx context.Context) error

// SessionLostFunc runs when a protected request failed and the session
// could not be refreshed.
type SessionLostFunc func(ctx context.Context)

var errNoRefresher = errors.New("no refresher configured")

// Interceptor is the transport every backend call goes through. It sends
// credentials with every request and recovers protected requests from
// 401/403 with one refresh and one replay.
type Interceptor struct {
	next   http.RoundTripper
	jar    http.CookieJar
	tokens *TokenStore
	host   string
	log    logging.Logger

	refreshGroup singleflight.Group

	mu          sync.RWMutex
	refresh     RefreshFunc
	sessionLost SessionLostFunc
}

// NewInterceptor wraps next. tokens may be nil, which disables the bearer
// fallback. Bearer tokens are only sent to apiURL's host.
func NewInterceptor(next http.RoundTripper, jar http.CookieJar, tokens *TokenStore, apiURL string, log logging.Logger) *Interceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	if log == nil {
		log = logging.Nop()
	}
	host := ""
	if u, err := url.Parse(apiURL); err == nil {
		host = u.Host
	}
	return &Interceptor{
		next:   next,
		jar:    jar,
		tokens: tokens,
		host:   host,
		log:    log,
	}
}

// SetRefresher installs the refresh call. Set after construction because
// the refresh call itself goes through this transport.
func (i *Interceptor) SetRefresher(fn RefreshFunc) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.refresh = fn
}

// SetSessionLostHandler installs the handler run when refresh fails.
func (i *Interceptor) SetSessionLostHandler(fn SessionLostFunc) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sessionLost = fn
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	policy := PolicyFrom(ctx)

	reqID := req.Header.Get(common.RequestIDHeaderName)
	if reqID == "" {
		reqID = uuid.NewString()
	}

	resp, err := i.send(req, reqID, policy, false)
	if err != nil {
		return nil, err
	}
	if !isAuthStatus(resp.StatusCode) {
		return resp, nil
	}

	switch policy {
	case PolicyProtected:
	case PolicyLogout:
		if resp.StatusCode == http.StatusForbidden {
			i.log.Info(ctx, "logout rejected, session already gone", "request_id", reqID)
		}
		return resp, nil
	default:
		return resp, nil
	}

	i.log.Info(ctx, "protected request rejected, refreshing session",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "request_id", reqID)

	if err := i.refreshOnce(ctx); err != nil {
		if ctx.Err() != nil {
			return resp, nil
		}
		i.log.Warn(ctx, "session refresh failed", "error", err, "request_id", reqID)
		i.onSessionLost(ctx)
		return resp, nil
	}

	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		i.log.Warn(ctx, "request body cannot be replayed", "path", req.URL.Path, "request_id", reqID)
		return resp, nil
	}
	drain(resp)

	return i.send(req, reqID, policy, true)
}

// send clones req, attaches current credentials and performs it. Cookies
// are re-read from the jar each time, so a replay carries refreshed ones.
func (i *Interceptor) send(req *http.Request, reqID string, policy Policy, replay bool) (*http.Response, error) {
	ctx := req.Context()

	out := req.Clone(ctx)
	if replay && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		out.Body = body
	}
	out.Header.Set(common.RequestIDHeaderName, reqID)
	out.Header.Del("Cookie")
	if i.jar != nil {
		for _, c := range i.jar.Cookies(out.URL) {
			out.AddCookie(c)
		}
	}
	if err := i.attachBearer(ctx, out); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := i.next.RoundTrip(out)
	if err != nil {
		i.log.Debug(ctx, "request failed",
			"method", out.Method, "path", out.URL.Path, "policy", policy.String(),
			"replay", replay, "request_id", reqID, "error", err)
		return nil, err
	}

	if i.jar != nil {
		if rc := resp.Cookies(); len(rc) > 0 {
			i.jar.SetCookies(out.URL, rc)
		}
	}

	i.log.Debug(ctx, "request finished",
		"method", out.Method, "path", out.URL.Path, "policy", policy.String(),
		"status", resp.StatusCode, "duration", time.Since(start),
		"replay", replay, "request_id", reqID)
	return resp, nil
}

func (i *Interceptor) attachBearer(ctx context.Context, req *http.Request) error {
	if i.tokens == nil || req.URL.Host != i.host {
		return nil
	}
	token, err := i.tokens.Get(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	} else {
		req.Header.Del(common.AuthorizationHeaderName)
	}
	return nil
}

// refreshOnce runs the refresher, sharing one call among concurrent
// failures. The shared call is detached from the first caller's
// cancellation.
func (i *Interceptor) refreshOnce(ctx context.Context) error {
	i.mu.RLock()
	fn := i.refresh
	i.mu.RUnlock()
	if fn == nil {
		return errNoRefresher
	}

	ch := i.refreshGroup.DoChan("refresh", func() (any, error) {
		return nil, fn(WithPolicy(context.WithoutCancel(ctx), PolicyRefresh))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Interceptor) onSessionLost(ctx context.Context) {
	i.mu.RLock()
	fn := i.sessionLost
	i.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
