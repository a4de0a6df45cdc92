package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alphasolutions/piauieventos-cli/internal/client/storage"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
	"github.com/alphasolutions/piauieventos-cli/internal/logging"
)

// storedCookie is the persisted form of a cookie. cookiejar.Jar only hands
// back name and value, so attributes are kept here.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

// key identifies a cookie the way a jar does: by name, domain and path.
func (s storedCookie) key() string {
	return s.Name + ";" + s.Domain + ";" + s.Path
}

func (s storedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Value:    s.Value,
		Path:     s.Path,
		Domain:   s.Domain,
		Expires:  s.Expires,
		Secure:   s.Secure,
		HttpOnly: s.HttpOnly,
	}
}

// PersistentJar is an http.CookieJar that mirrors the API host's cookies
// into the local store under common.StorageKeyCookies.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	stored map[string]storedCookie // by storedCookie.key
	repo   storage.Repository
	host   string
	log    logging.Logger
	now    func() time.Time
}

// NewPersistentJar builds a jar for apiURL and loads previously persisted
// cookies. Unreadable or expired entries are dropped.
func NewPersistentJar(ctx context.Context, repo storage.Repository, apiURL string, log logging.Logger) (*PersistentJar, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}

	j := &PersistentJar{
		repo:   repo,
		host:   u.Hostname(),
		log:    log,
		now:    time.Now,
		stored: map[string]storedCookie{},
	}
	j.jar, _ = cookiejar.New(nil)

	if err := j.load(ctx, u); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *PersistentJar) load(ctx context.Context, u *url.URL) error {
	raw, err := j.repo.Get(ctx, common.StorageKeyCookies)
	if err != nil {
		return fmt.Errorf("load cookies: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var items []storedCookie
	if err := json.Unmarshal(raw, &items); err != nil {
		j.log.Warn(ctx, "dropping unreadable cookie cache", "error", err)
		return j.repo.Delete(ctx, common.StorageKeyCookies)
	}

	now := j.now()
	origin := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
	var cookies []*http.Cookie
	for _, it := range items {
		if !it.Expires.IsZero() && !it.Expires.After(now) {
			continue
		}
		j.stored[it.key()] = it
		cookies = append(cookies, it.cookie())
	}
	j.jar.SetCookies(origin, cookies)
	j.log.Debug(ctx, "restored cookies", "count", len(cookies))
	return nil
}

// Cookies implements http.CookieJar.
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// SetCookies implements http.CookieJar. Cookies for the API host are
// written through to the local store.
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)
	if u.Hostname() != j.host {
		return
	}

	now := j.now()
	for _, c := range cookies {
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     cookiePath(u, c.Path),
			Domain:   strings.ToLower(strings.TrimPrefix(c.Domain, ".")),
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(j.stored, sc.key())
			continue
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.stored[sc.key()] = sc
	}

	if err := j.persistLocked(context.Background()); err != nil {
		j.log.Error(context.Background(), "persist cookies", "error", err)
	}
}

func (j *PersistentJar) persistLocked(ctx context.Context) error {
	if len(j.stored) == 0 {
		return j.repo.Delete(ctx, common.StorageKeyCookies)
	}

	items := make([]storedCookie, 0, len(j.stored))
	for _, sc := range j.stored {
		items = append(items, sc)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].key() < items[b].key() })

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return j.repo.Set(ctx, common.StorageKeyCookies, raw)
}

// cookiePath returns path, or the default path of u (RFC 6265 5.1.4) when
// the cookie carries none.
func cookiePath(u *url.URL, path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	i := strings.LastIndex(u.Path, "/")
	if i <= 0 {
		return "/"
	}
	return u.Path[:i]
}

// Clear drops every cookie from memory and from the local store.
func (j *PersistentJar) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar, _ = cookiejar.New(nil)
	j.stored = map[string]storedCookie{}
	if err := j.repo.Delete(ctx, common.StorageKeyCookies); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}

// Len returns the number of persisted cookies.
func (j *PersistentJar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.stored)
}
