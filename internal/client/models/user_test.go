package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleLabel(t *testing.T) {
	cases := map[string]string{
		"USER":          "Participante",
		"ADMIN":         "Administrador",
		"admin":         "Administrador",
		" Moderator ":   "Moderador",
		"ORGANIZER":     "Organizador",
		"SUPERUSER":     "Participante",
		"":              "Participante",
		"Administrador": "Administrador",
		"Organizador":   "Organizador",
	}
	for in, want := range cases {
		assert.Equal(t, want, RoleLabel(in), "RoleLabel(%q)", in)
	}
}

func TestUserProfile_ToUser(t *testing.T) {
	p := UserProfile{
		ID:          7,
		Name:        "Ana",
		Email:       "ana@x",
		PhoneNumber: "86999990000",
		Role:        RoleRef{RoleID: 1, RoleName: "ADMIN"},
	}

	u := p.ToUser()
	require.True(t, u.Valid())
	assert.Equal(t, &User{ID: 7, Name: "Ana", Email: "ana@x", PhoneNumber: "86999990000", Role: "Administrador", RoleID: 1}, u)
}

func TestUser_HasRole(t *testing.T) {
	admin := &User{ID: 1, Role: "Administrador"}
	assert.True(t, admin.HasRole("ADMIN"))
	assert.True(t, admin.HasRole("admin"))
	assert.True(t, admin.HasRole("Administrador"))
	assert.False(t, admin.HasRole("USER"))

	participant := &User{ID: 2, Role: "Participante"}
	assert.True(t, participant.HasRole("USER"))
	assert.False(t, participant.HasRole("ADMIN"))
	assert.False(t, participant.HasRole("UNKNOWN"), "unknown codes never match through the default label")
	assert.False(t, participant.HasRole(""))

	var none *User
	assert.False(t, none.HasRole("USER"))
	assert.False(t, none.Valid())
}

func TestUser_Clone(t *testing.T) {
	u := &User{ID: 1, Name: "a"}
	c := u.Clone()
	c.Name = "b"
	assert.Equal(t, "a", u.Name)

	var none *User
	assert.Nil(t, none.Clone())
}
