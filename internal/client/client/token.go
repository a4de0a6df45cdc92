package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alphasolutions/piauieventos-cli/internal/client/storage"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

// TokenStore keeps the optional bearer token some backends return from
// login. Cookies stay the primary credential.
type TokenStore struct {
	mu     sync.Mutex
	repo   storage.Repository
	token  string
	loaded bool
	now    func() time.Time
}

func NewTokenStore(repo storage.Repository) *TokenStore {
	return &TokenStore{repo: repo, now: time.Now}
}

// Get returns the cached token, or "" when none is cached or when it is a
// JWT whose exp has passed. Expired tokens are removed. The signature is
// not verified; the backend does that.
func (s *TokenStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		raw, err := s.repo.Get(ctx, common.StorageKeyAccessToken)
		if err != nil {
			return "", fmt.Errorf("load access token: %w", err)
		}
		s.token = string(raw)
		s.loaded = true
	}

	if s.token == "" || !s.expired(s.token) {
		return s.token, nil
	}

	s.token = ""
	if err := s.repo.Delete(ctx, common.StorageKeyAccessToken); err != nil {
		return "", fmt.Errorf("drop expired access token: %w", err)
	}
	return "", nil
}

func (s *TokenStore) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// opaque token
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

func (s *TokenStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Set(ctx, common.StorageKeyAccessToken, []byte(token)); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	s.token = token
	s.loaded = true
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true
	if err := s.repo.Delete(ctx, common.StorageKeyAccessToken); err != nil {
		return fmt.Errorf("clear access token: %w", err)
	}
	return nil
}
