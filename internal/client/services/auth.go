// Package services contains the application services of the Piauí Eventos
// client. This file defines the authentication service: login and logout,
// the who-am-i probe, session refresh and the local session cache.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/session"
	"github.com/alphasolutions/piauieventos-cli/internal/client/storage"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
	"github.com/alphasolutions/piauieventos-cli/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a session, then load the user.
//   - FetchCurrentUser: ask the backend who is signed in and store it; a
//     401/403 clears the local session and is returned to the caller.
//   - IsAuthenticated: synchronous check, restoring from the cache when
//     memory is empty.
//   - Logout: best-effort server call; local state is always cleared.
//   - RefreshToken: renew the session and reload the user. A failure does
//     not sign the user out.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Init(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	FetchCurrentUser(ctx context.Context) (*models.User, error)
	CurrentUser() *models.User
	IsAuthenticated(ctx context.Context) bool
	HasRole(role string) bool
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (*models.User, error)
	SignUp(ctx context.Context, req models.SignUpRequest) error
	RememberEmail(ctx context.Context, email string) error
	RememberedEmail(ctx context.Context) (string, error)
	ClearLocalSession(ctx context.Context) error
	Subscribe() (<-chan *models.User, func())
}

// CredentialStore is something holding credentials that logout must drop,
// such as the cookie jar or the bearer token store.
type CredentialStore interface {
	Clear(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session *session.Store
	repo    storage.Repository
	tokens  *client.TokenStore
	creds   []CredentialStore
	log     logging.Logger
}

// NewAuthService builds the service. tokens may be nil when the bearer
// fallback is off; creds lists the extra stores cleared on logout.
func NewAuthService(c client.Client, s *session.Store, repo storage.Repository, tokens *client.TokenStore, log logging.Logger, creds ...CredentialStore) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		client:  c,
		session: s,
		repo:    repo,
		tokens:  tokens,
		creds:   creds,
		log:     log.With("component", "auth"),
	}
}

// Init restores the cached session and confirms it with the backend
// without any redirect. A rejected probe leaves the client signed out; an
// unreachable backend keeps the cached user.
func (a *authService) Init(ctx context.Context) (*models.User, error) {
	a.session.Restore(ctx)

	u, err := a.FetchCurrentUser(ctx)
	switch {
	case err == nil:
		return u, nil
	case client.IsAuthFailure(err), errors.Is(err, common.ErrNotAuthenticated):
		a.log.Debug(ctx, "no active session")
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}

	a.log.Warn(ctx, "backend unreachable, using cached session", "error", err)
	return a.session.Current(), nil
}

// Login authenticates and loads the signed-in user. On failure the session
// is left untouched.
func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := a.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if a.tokens != nil && resp.AccessToken != "" {
		if err := a.tokens.Set(ctx, resp.AccessToken); err != nil {
			return nil, err
		}
	}

	u, err := a.FetchCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user after login: %w", err)
	}
	a.log.Info(ctx, "signed in", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// FetchCurrentUser probes GET /user/me. The response replaces the session
// and the cache; the role code is translated to its display label. A body
// without a user id counts as signed out.
func (a *authService) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	profile, err := a.client.Me(ctx)
	if err != nil {
		if client.IsAuthFailure(err) {
			if cerr := a.session.Clear(ctx); cerr != nil {
				a.log.Error(ctx, "clear session after rejected probe", "error", cerr)
			}
		}
		return nil, err
	}

	var u *models.User
	if profile != nil {
		u = profile.ToUser()
	}
	if !u.Valid() {
		if cerr := a.session.Clear(ctx); cerr != nil {
			a.log.Error(ctx, "clear session after empty probe", "error", cerr)
		}
		return nil, fmt.Errorf("probe returned no user: %w", common.ErrNotAuthenticated)
	}
	if err := a.session.Set(ctx, u); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return u.Clone(), nil
}

func (a *authService) CurrentUser() *models.User {
	return a.session.Current()
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return a.session.Restore(ctx)
}

func (a *authService) HasRole(role string) bool {
	return a.session.Current().HasRole(role)
}

// Logout tells the backend, then clears every piece of local session state
// whatever the backend answered. Only a local clearing failure is returned.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		if errors.Is(err, common.ErrForbidden) {
			a.log.Info(ctx, "server session already gone")
		} else {
			a.log.Warn(ctx, "logout request failed", "error", err)
		}
	}

	if err := a.ClearLocalSession(ctx); err != nil {
		return fmt.Errorf("clear local session: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

// RefreshToken renews the server session and reloads the user.
func (a *authService) RefreshToken(ctx context.Context) (*models.User, error) {
	if err := a.client.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return a.FetchCurrentUser(ctx)
}

// SignUp creates an account. Accounts default to the participant role.
func (a *authService) SignUp(ctx context.Context, req models.SignUpRequest) error {
	if req.RoleID == 0 {
		req.RoleID = models.DefaultSignUpRoleID
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := a.client.SignUp(ctx, req); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

// RememberEmail stores the login e-mail for the next prompt. An empty
// email forgets it.
func (a *authService) RememberEmail(ctx context.Context, email string) error {
	if email == "" {
		return a.repo.Delete(ctx, common.StorageKeyRememberedEmail)
	}
	return a.repo.Set(ctx, common.StorageKeyRememberedEmail, []byte(email))
}

func (a *authService) RememberedEmail(ctx context.Context) (string, error) {
	b, err := a.repo.Get(ctx, common.StorageKeyRememberedEmail)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ClearLocalSession drops the user, the bearer token and the cookies. It
// keeps going after a failure and reports all of them.
func (a *authService) ClearLocalSession(ctx context.Context) error {
	errs := []error{a.session.Clear(ctx)}
	if a.tokens != nil {
		errs = append(errs, a.tokens.Clear(ctx))
	}
	for _, c := range a.creds {
		errs = append(errs, c.Clear(ctx))
	}
	return errors.Join(errs...)
}

func (a *authService) Subscribe() (<-chan *models.User, func()) {
	return a.session.Subscribe()
}
