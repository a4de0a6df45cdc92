package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

var ErrInvalidZipCode = errors.New("zip code must have 8 digits")

// HTTPClient implements Client over the REST API. The credential handling
// lives in its transport, normally an *Interceptor.
type HTTPClient struct {
	baseURL *url.URL
	zipURL  string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for baseURL. zipLookupURL is the ViaCEP
// base, e.g. https://viacep.com.br/ws.
func NewHTTPClient(baseURL, zipLookupURL string, transport http.RoundTripper, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	return &HTTPClient{
		baseURL: u,
		zipURL:  strings.TrimRight(zipLookupURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}, nil
}

func (c *HTTPClient) endpoint(elem ...string) string {
	u := *c.baseURL
	u.Path = path.Join(append([]string{u.Path}, elem...)...)
	return u.String()
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// call sends a JSON request and decodes a JSON answer into out when out is
// non-nil. Non-2xx answers become *APIError.
func (c *HTTPClient) call(ctx context.Context, p Policy, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(WithPolicy(ctx, p), method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return newTransportError(req, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newResponseError(req, resp)
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	in := models.LoginRequest{Username: username, Password: password}
	if err := c.call(ctx, PolicyLogin, http.MethodPost, c.endpoint("auth", "login"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.call(ctx, PolicyProbe, http.MethodGet, c.endpoint("user", "me"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Refresh(ctx context.Context) error {
	return c.call(ctx, PolicyRefresh, http.MethodPost, c.endpoint("auth", "refresh"), nil, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.call(ctx, PolicyLogout, http.MethodPost, c.endpoint("auth", "logout"), nil, nil)
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUpRequest) error {
	return c.call(ctx, PolicyPublic, http.MethodPost, c.endpoint("user"), req, nil)
}

func (c *HTTPClient) ListEvents(ctx context.Context, filter models.EventFilter, page, size int) (*models.EventPage, error) {
	q := filter.Values()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out models.EventPage
	target := c.endpoint("events") + "?" + q.Encode()
	if err := c.call(ctx, PolicyPublic, http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	var out models.Event
	if err := c.call(ctx, PolicyPublic, http.MethodGet, c.endpoint("events", id(eventID)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	var out models.Event
	if err := c.call(ctx, PolicyProtected, http.MethodPost, c.endpoint("events"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, eventID int64, upd models.EventUpdate) (*models.Event, error) {
	var out models.Event
	if err := c.call(ctx, PolicyProtected, http.MethodPut, c.endpoint("events", id(eventID)), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, eventID int64) error {
	return c.call(ctx, PolicyProtected, http.MethodDelete, c.endpoint("events", id(eventID)), nil, nil)
}

func (c *HTTPClient) EventsByOrganizer(ctx context.Context, userID int64) ([]models.Event, error) {
	var out []models.Event
	if err := c.call(ctx, PolicyProtected, http.MethodGet, c.endpoint("events", "user", id(userID)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) RegisteredEvents(ctx context.Context, userID int64) ([]models.Event, error) {
	var out []models.Event
	if err := c.call(ctx, PolicyProtected, http.MethodGet, c.endpoint("events", "registered", id(userID)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Registration endpoints are public: a rejected session is reported to the
// caller and never triggers a refresh or the session-lost handler.

// IsRegistered maps 200 to true and 404 to false.
func (c *HTTPClient) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	err := c.call(ctx, PolicyPublic, http.MethodGet, c.endpoint("events", id(eventID), "register", id(userID)), nil, nil)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrNotFound):
		return false, nil
	}
	return false, err
}

func (c *HTTPClient) RegisterForEvent(ctx context.Context, eventID, userID int64) error {
	in := models.RegistrationRequest{UserID: userID}
	return c.call(ctx, PolicyPublic, http.MethodPost, c.endpoint("events", id(eventID), "register"), in, nil)
}

func (c *HTTPClient) UnregisterFromEvent(ctx context.Context, eventID, userID int64) error {
	return c.call(ctx, PolicyPublic, http.MethodDelete, c.endpoint("events", id(eventID), "register", id(userID)), nil, nil)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.call(ctx, PolicyProtected, http.MethodPut, c.endpoint("user", "profile"), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, upd models.PasswordUpdate) error {
	return c.call(ctx, PolicyProtected, http.MethodPut, c.endpoint("user", "password"), upd, nil)
}

// UploadAvatar sends the image as the multipart field "avatar" and returns
// the stored image URL. The body is buffered so it can be replayed.
func (c *HTTPClient) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", path.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(WithPolicy(ctx, PolicyProtected), http.MethodPost,
		c.endpoint("user", "avatar"), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out models.AvatarResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.AvatarURL, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, password string) error {
	in := struct {
		Password string `json:"password"`
	}{Password: password}
	return c.call(ctx, PolicyProtected, http.MethodPost, c.endpoint("user", "delete"), in, nil)
}

// LookupZipCode queries ViaCEP. Unknown zip codes yield common.ErrNotFound.
func (c *HTTPClient) LookupZipCode(ctx context.Context, zip string) (*models.Address, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, zip)
	if len(digits) != 8 {
		return nil, ErrInvalidZipCode
	}

	var out models.Address
	target := c.zipURL + "/" + digits + "/json/"
	if err := c.call(ctx, PolicyPublic, http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	if out.Missing() {
		return nil, fmt.Errorf("zip code %s: %w", digits, common.ErrNotFound)
	}
	return &out, nil
}
