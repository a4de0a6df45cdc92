package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

func TestUpdateProfile_KeepsRoleLabel(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{ProfileRet: &models.UserProfile{
		ID:    7,
		Name:  "Ana Maria",
		Email: "ana@piaui.br",
		Role:  models.RoleRef{RoleID: 3, RoleName: "ORGANIZER"},
	}}
	f := newFixture(t, fc)
	signedIn(t, f)
	svc := NewUserService(fc, f.auth, f.store)

	u, err := svc.UpdateProfile(ctx, models.ProfileUpdate{Name: "Ana Maria"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, 3, u.RoleID)
	assert.Equal(t, "Participante", u.Role)
	assert.Equal(t, u, f.store.Current())
	assert.Contains(t, string(cached(t, f, common.StorageKeyUser)), "Ana Maria")
}

func TestUpdateProfile_SignedOut(t *testing.T) {
	fc := &fakeClient{}
	f := newFixture(t, fc)

	_, err := NewUserService(fc, f.auth, f.store).UpdateProfile(context.Background(), models.ProfileUpdate{})
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Equal(t, 0, fc.count("UpdateProfile"))
}

func TestUploadAvatar_UpdatesSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{AvatarRet: "/avatars/7/me.png"}
	f := newFixture(t, fc)
	signedIn(t, f)

	url, err := NewUserService(fc, f.auth, f.store).UploadAvatar(ctx, "me.png", strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, "/avatars/7/me.png", url)
	assert.Equal(t, "PNG", fc.LastAvatarBody)
	assert.Equal(t, url, f.store.Current().Avatar)
}

func TestUpdatePassword(t *testing.T) {
	fc := &fakeClient{PasswordErr: apiErr(400)}
	f := newFixture(t, fc)

	err := NewUserService(fc, f.auth, f.store).UpdatePassword(context.Background(), "old", "new")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, models.PasswordUpdate{CurrentPassword: "old", NewPassword: "new"}, fc.LastPassword)
}

func TestDeleteAccount_ClearsLocalSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	f := newFixture(t, fc)
	signedIn(t, f)

	require.NoError(t, NewUserService(fc, f.auth, f.store).DeleteAccount(ctx, "secret"))
	assert.Nil(t, f.store.Current())
	assert.Equal(t, 1, f.creds.cleared)
}

func TestDeleteAccount_FailureKeepsSession(t *testing.T) {
	fc := &fakeClient{DeleteErr: apiErr(400)}
	f := newFixture(t, fc)
	signedIn(t, f)

	require.Error(t, NewUserService(fc, f.auth, f.store).DeleteAccount(context.Background(), "wrong"))
	assert.NotNil(t, f.store.Current())
}
