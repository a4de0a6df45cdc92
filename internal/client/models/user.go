// Package models defines the client-side domain types: the signed-in user,
// events, filters and the request bodies sent to the backend.
package models

import "strings"

// User is the signed-in principal as the client keeps it. Role holds the
// display label (see RoleLabel), never the raw backend code.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	RoleID      int    `json:"roleId"`
	Avatar      string `json:"avatar,omitempty"`
}

// Valid reports whether u identifies a real account.
func (u *User) Valid() bool {
	return u != nil && u.ID != 0
}

// Clone returns a copy so callers cannot mutate the session's value.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// RoleRef is the nested role object returned by the backend.
type RoleRef struct {
	RoleID   int    `json:"roleId"`
	RoleName string `json:"roleName"`
}

// UserProfile is the body of GET /user/me and PUT /user/profile.
type UserProfile struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	PhoneNumber     string  `json:"phoneNumber"`
	Role            RoleRef `json:"role"`
	Avatar          string  `json:"avatar,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	EventsAttended  int     `json:"eventsAttended,omitempty"`
	EventsOrganized int     `json:"eventsOrganized,omitempty"`
}

// ToUser normalizes a backend profile into the session representation.
func (p UserProfile) ToUser() *User {
	return &User{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Role:        RoleLabel(p.Role.RoleName),
		RoleID:      p.Role.RoleID,
		Avatar:      p.Avatar,
	}
}

// Backend role codes.
const (
	RoleUser      = "USER"
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
	RoleOrganizer = "ORGANIZER"
)

var roleLabels = map[string]string{
	RoleUser:      "Participante",
	RoleAdmin:     "Administrador",
	RoleModerator: "Moderador",
	RoleOrganizer: "Organizador",
}

// IsRoleCode reports whether s is one of the backend role codes
// (case-insensitive).
func IsRoleCode(s string) bool {
	_, ok := roleLabels[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// IsRoleLabel reports whether s is one of the display labels.
func IsRoleLabel(s string) bool {
	for _, l := range roleLabels {
		if l == s {
			return true
		}
	}
	return false
}

// RoleLabel translates a backend role code into its display label. Labels
// map to themselves and unknown codes default to Participante.
func RoleLabel(code string) string {
	if l, ok := roleLabels[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return l
	}
	if IsRoleLabel(code) {
		return code
	}
	return roleLabels[RoleUser]
}

// HasRole reports whether u holds role, given either as a backend code or
// as a display label.
func (u *User) HasRole(role string) bool {
	if u == nil || role == "" {
		return false
	}
	if strings.EqualFold(u.Role, role) {
		return true
	}
	return IsRoleCode(role) && RoleLabel(role) == u.Role
}
