package services

import (
	"context"
	"fmt"
	"io"

	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/session"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

// UserService manages the signed-in user's account.
type UserService interface {
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, current, next string) error
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error)
	DeleteAccount(ctx context.Context, password string) error
	LookupZipCode(ctx context.Context, zip string) (*models.Address, error)
}

type userService struct {
	client  client.Client
	auth    AuthService
	session *session.Store
}

func NewUserService(c client.Client, auth AuthService, s *session.Store) UserService {
	return &userService{client: c, auth: auth, session: s}
}

// Profile reloads the signed-in user from the backend.
func (s *userService) Profile(ctx context.Context) (*models.User, error) {
	return s.auth.FetchCurrentUser(ctx)
}

// UpdateProfile saves the profile and refreshes the session with the
// answer. The role label already held is kept.
func (s *userService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	cur := s.session.Current()
	if cur == nil {
		return nil, common.ErrNotAuthenticated
	}

	p, err := s.client.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if p.ID != 0 {
		cur.ID = p.ID
	}
	if p.Name != "" {
		cur.Name = p.Name
	}
	if p.Email != "" {
		cur.Email = p.Email
	}
	if p.PhoneNumber != "" {
		cur.PhoneNumber = p.PhoneNumber
	}
	if p.Role.RoleID != 0 {
		cur.RoleID = p.Role.RoleID
	}
	if err := s.session.Set(ctx, cur); err != nil {
		return nil, err
	}
	return cur.Clone(), nil
}

func (s *userService) UpdatePassword(ctx context.Context, current, next string) error {
	err := s.client.UpdatePassword(ctx, models.PasswordUpdate{CurrentPassword: current, NewPassword: next})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UploadAvatar sends a new profile picture and records its URL in the
// session.
func (s *userService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	cur := s.session.Current()
	if cur == nil {
		return "", common.ErrNotAuthenticated
	}

	url, err := s.client.UploadAvatar(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	cur.Avatar = url
	if err := s.session.Set(ctx, cur); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAccount removes the account and signs out locally.
func (s *userService) DeleteAccount(ctx context.Context, password string) error {
	if err := s.client.DeleteAccount(ctx, password); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return s.auth.ClearLocalSession(ctx)
}

func (s *userService) LookupZipCode(ctx context.Context, zip string) (*models.Address, error) {
	return s.client.LookupZipCode(ctx, zip)
}
