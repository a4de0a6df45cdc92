package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/alphasolutions/piauieventos-cli/internal/client/apitest"
	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/session"
	"github.com/alphasolutions/piauieventos-cli/internal/client/storage"
)

// fakeClient implements client.Client for service unit tests. Results are
// preset; arguments are captured for assertions.
type fakeClient struct {
	mu sync.Mutex

	LoginRet *models.LoginResponse
	LoginErr error
	MeRet    *models.UserProfile
	MeErr    error

	RefreshErr error
	LogoutErr  error
	SignUpErr  error

	ListRet     *models.EventPage
	ListErr     error
	GetRet      *models.Event
	CreateRet   *models.Event
	CreateErr   error
	EventsRet   []models.Event
	EventsErr   error
	IsRegRet    bool
	IsRegErr    error
	RegisterErr error

	ProfileRet  *models.UserProfile
	ProfileErr  error
	PasswordErr error
	AvatarRet   string
	DeleteErr   error

	LastLoginUser  string
	LastSignUp     models.SignUpRequest
	LastFilter     models.EventFilter
	LastPage       int
	LastSize       int
	LastCreate     models.EventRequest
	LastUserID     int64
	LastEventID    int64
	LastPassword   models.PasswordUpdate
	LastAvatarName string
	LastAvatarBody string

	Calls map[string]int
}

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[name]++
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	f.hit("Login")
	f.LastLoginUser = username
	if f.LoginRet == nil && f.LoginErr == nil {
		return &models.LoginResponse{}, nil
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.UserProfile, error) {
	f.hit("Me")
	return f.MeRet, f.MeErr
}

func (f *fakeClient) Refresh(ctx context.Context) error {
	f.hit("Refresh")
	return f.RefreshErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.hit("Logout")
	return f.LogoutErr
}

func (f *fakeClient) SignUp(ctx context.Context, req models.SignUpRequest) error {
	f.hit("SignUp")
	f.LastSignUp = req
	return f.SignUpErr
}

func (f *fakeClient) ListEvents(ctx context.Context, filter models.EventFilter, page, size int) (*models.EventPage, error) {
	f.hit("ListEvents")
	f.LastFilter, f.LastPage, f.LastSize = filter, page, size
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	f.hit("GetEvent")
	f.LastEventID = id
	return f.GetRet, nil
}

func (f *fakeClient) CreateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	f.hit("CreateEvent")
	f.LastCreate = req
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateEvent(ctx context.Context, id int64, upd models.EventUpdate) (*models.Event, error) {
	f.hit("UpdateEvent")
	f.LastEventID = id
	return f.GetRet, nil
}

func (f *fakeClient) DeleteEvent(ctx context.Context, id int64) error {
	f.hit("DeleteEvent")
	f.LastEventID = id
	return f.DeleteErr
}

func (f *fakeClient) EventsByOrganizer(ctx context.Context, userID int64) ([]models.Event, error) {
	f.hit("EventsByOrganizer")
	f.LastUserID = userID
	return f.EventsRet, f.EventsErr
}

func (f *fakeClient) RegisteredEvents(ctx context.Context, userID int64) ([]models.Event, error) {
	f.hit("RegisteredEvents")
	f.LastUserID = userID
	return f.EventsRet, f.EventsErr
}

func (f *fakeClient) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	f.hit("IsRegistered")
	f.LastEventID, f.LastUserID = eventID, userID
	return f.IsRegRet, f.IsRegErr
}

func (f *fakeClient) RegisterForEvent(ctx context.Context, eventID, userID int64) error {
	f.hit("RegisterForEvent")
	f.LastEventID, f.LastUserID = eventID, userID
	return f.RegisterErr
}

func (f *fakeClient) UnregisterFromEvent(ctx context.Context, eventID, userID int64) error {
	f.hit("UnregisterFromEvent")
	f.LastEventID, f.LastUserID = eventID, userID
	return f.RegisterErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	f.hit("UpdateProfile")
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) UpdatePassword(ctx context.Context, upd models.PasswordUpdate) error {
	f.hit("UpdatePassword")
	f.LastPassword = upd
	return f.PasswordErr
}

func (f *fakeClient) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	f.hit("UploadAvatar")
	b, _ := io.ReadAll(r)
	f.LastAvatarName, f.LastAvatarBody = filename, string(b)
	return f.AvatarRet, nil
}

func (f *fakeClient) DeleteAccount(ctx context.Context, password string) error {
	f.hit("DeleteAccount")
	return f.DeleteErr
}

func (f *fakeClient) LookupZipCode(ctx context.Context, zip string) (*models.Address, error) {
	f.hit("LookupZipCode")
	return &models.Address{ZipCode: zip}, nil
}

var _ client.Client = (*fakeClient)(nil)

// fakeCreds records Clear calls.
type fakeCreds struct {
	cleared int
	err     error
}

func (f *fakeCreds) Clear(context.Context) error {
	f.cleared++
	return f.err
}

type fixture struct {
	fc    *fakeClient
	repo  *storage.SQLiteRepository
	store *session.Store
	creds *fakeCreds
	auth  AuthService
}

func newFixture(t *testing.T, fc *fakeClient) *fixture {
	t.Helper()
	f := &fixture{fc: fc, repo: apitest.NewStore(t), creds: &fakeCreds{}}
	f.store = session.NewStore(f.repo, nil)
	f.auth = NewAuthService(fc, f.store, f.repo, client.NewTokenStore(f.repo), nil, f.creds)
	return f
}

func apiErr(status int) error {
	return &client.APIError{Kind: client.KindForStatus(status), HTTPStatus: status, Method: "GET", URL: "http://x"}
}

var anaProfile = &models.UserProfile{
	ID:    7,
	Name:  "Ana",
	Email: "ana@piaui.br",
	Role:  models.RoleRef{RoleID: 2, RoleName: "USER"},
}
