package client

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphasolutions/piauieventos-cli/internal/client/apitest"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestTokenStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := apitest.NewStore(t)

	s := NewTokenStore(repo)
	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	tok := signed(t, time.Now().Add(time.Hour))
	require.NoError(t, s.Set(ctx, tok))

	fresh := NewTokenStore(repo)
	got, err = fresh.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok, got)

	require.NoError(t, fresh.Clear(ctx))
	got, err = NewTokenStore(repo).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenStore_DropsExpiredJWT(t *testing.T) {
	ctx := context.Background()
	repo := apitest.NewStore(t)
	require.NoError(t, repo.Set(ctx, common.StorageKeyAccessToken, []byte(signed(t, time.Now().Add(-time.Minute)))))

	got, err := NewTokenStore(repo).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, err := repo.Get(ctx, common.StorageKeyAccessToken)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestTokenStore_KeepsOpaqueToken(t *testing.T) {
	ctx := context.Background()
	repo := apitest.NewStore(t)
	s := NewTokenStore(repo)
	require.NoError(t, s.Set(ctx, "opaque-token"))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", got)
}
