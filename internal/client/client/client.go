package client

import (
	"context"
	"io"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
)

// Client is the backend API as the services see it.
type Client interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.UserProfile, error)
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	SignUp(ctx context.Context, req models.SignUpRequest) error

	ListEvents(ctx context.Context, filter models.EventFilter, page, size int) (*models.EventPage, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	CreateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, upd models.EventUpdate) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	EventsByOrganizer(ctx context.Context, userID int64) ([]models.Event, error)
	RegisteredEvents(ctx context.Context, userID int64) ([]models.Event, error)

	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
	RegisterForEvent(ctx context.Context, eventID, userID int64) error
	UnregisterFromEvent(ctx context.Context, eventID, userID int64) error

	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error)
	UpdatePassword(ctx context.Context, upd models.PasswordUpdate) error
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error)
	DeleteAccount(ctx context.Context, password string) error

	LookupZipCode(ctx context.Context, zip string) (*models.Address, error)
}
