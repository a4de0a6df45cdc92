package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

func TestRegistrationMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{common.ErrNotAuthenticated, "Usuário não autenticado."},
		{apiErr(400), "Dados inválidos. Verifique as informações."},
		{apiErr(401), "Sessão expirada. Por favor, faça login novamente."},
		{apiErr(403), "Você não tem permissão para realizar esta ação."},
		{apiErr(404), "Evento ou inscrição não encontrada."},
		{apiErr(409), "Você já está inscrito neste evento."},
		{apiErr(500), "Erro no servidor. Tente novamente em alguns minutos."},
		{apiErr(0), "Erro de conexão. Verifique sua internet."},
		{apiErr(422), "Erro 422: Unprocessable Entity"},
		{errors.New("boom"), "Erro desconhecido."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RegistrationMessage(tc.err))
	}
}

func TestRegister_RequiresUser(t *testing.T) {
	fc := &fakeClient{}
	f := newFixture(t, fc)
	svc := NewRegistrationService(fc, f.auth)

	err := svc.Register(context.Background(), 3)
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Equal(t, "Usuário não autenticado.", err.Error())
	assert.Equal(t, 0, fc.count("RegisterForEvent"))
}

func TestRegister_SendsCurrentUser(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	f := newFixture(t, fc)
	signedIn(t, f)
	svc := NewRegistrationService(fc, f.auth)

	require.NoError(t, svc.Register(ctx, 3))
	assert.Equal(t, int64(3), fc.LastEventID)
	assert.Equal(t, int64(7), fc.LastUserID)

	require.NoError(t, svc.Unregister(ctx, 4))
	assert.Equal(t, int64(4), fc.LastEventID)
}

func TestRegister_Conflict(t *testing.T) {
	fc := &fakeClient{RegisterErr: apiErr(409)}
	f := newFixture(t, fc)
	signedIn(t, f)

	err := NewRegistrationService(fc, f.auth).Register(context.Background(), 3)
	require.ErrorIs(t, err, common.ErrConflict)

	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Você já está inscrito neste evento.", ue.Message)
}

func TestIsRegistered(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{IsRegRet: true}
	f := newFixture(t, fc)
	svc := NewRegistrationService(fc, f.auth)

	ok, err := svc.IsRegistered(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok, "signed out users are never registered")
	assert.Equal(t, 0, fc.count("IsRegistered"))

	signedIn(t, f)
	ok, err = svc.IsRegistered(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}
