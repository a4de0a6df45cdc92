package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

func TestKindForStatus(t *testing.T) {
	cases := map[int]Kind{
		0:   KindNetworkOrServer,
		401: KindSessionExpired,
		403: KindForbidden,
		400: KindValidation,
		404: KindValidation,
		409: KindValidation,
		500: KindNetworkOrServer,
		503: KindNetworkOrServer,
	}
	for status, want := range cases {
		assert.Equal(t, want, KindForStatus(status), "status %d", status)
	}
}

func TestAPIError_Is(t *testing.T) {
	cases := []struct {
		status int
		want   []error
	}{
		{401, []error{common.ErrSessionExpired}},
		{403, []error{common.ErrForbidden}},
		{404, []error{common.ErrValidation, common.ErrNotFound}},
		{409, []error{common.ErrValidation, common.ErrConflict}},
		{502, []error{common.ErrUnavailable}},
	}
	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", &APIError{Kind: KindForStatus(tc.status), HTTPStatus: tc.status})
		for _, want := range tc.want {
			assert.ErrorIs(t, err, want, "status %d", tc.status)
		}
		assert.Equal(t, tc.status, StatusOf(err))
	}
}

func TestAPIError_TransportErrorKeepsCause(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://x/api/events", nil)
	err := newTransportError(req, context.Canceled)

	assert.ErrorIs(t, err, common.ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, err.HTTPStatus)
	assert.Contains(t, err.Error(), "GET http://x/api/events")
}

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure(&APIError{Kind: KindSessionExpired}))
	assert.True(t, IsAuthFailure(fmt.Errorf("x: %w", &APIError{Kind: KindForbidden})))
	assert.False(t, IsAuthFailure(&APIError{Kind: KindValidation}))
	assert.False(t, IsAuthFailure(errors.New("boom")))
}

func TestBackendMessage(t *testing.T) {
	assert.Equal(t, "Sessão expirada", backendMessage([]byte(`{"message":"Sessão expirada"}`)))
	assert.Equal(t, "Bad Request", backendMessage([]byte(`{"error":"Bad Request"}`)))
	assert.Equal(t, "", backendMessage([]byte(`<html>`)))
}

func TestPolicyFrom(t *testing.T) {
	require.Equal(t, PolicyProtected, PolicyFrom(context.Background()))
	require.Equal(t, PolicyProbe, PolicyFrom(WithPolicy(context.Background(), PolicyProbe)))
	require.Equal(t, "logout", PolicyLogout.String())
}
