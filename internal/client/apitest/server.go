// Package apitest runs an in-process fake of the Piauí Eventos backend for
// package tests. Sessions are cookie based: login sets access_token and
// refresh_token, refresh rotates access_token, logout revokes both.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

type account struct {
	password string
	profile  models.UserProfile
}

// Call is one request seen by the server.
type Call struct {
	Method string
	Path   string
	Cookie string
	Bearer string
}

// Server is the fake backend. The exported fields are knobs tests flip.
type Server struct {
	*httptest.Server

	// FailRefresh makes /auth/refresh answer 401.
	FailRefresh bool
	// IssueBearer makes login also return an accessToken in the body.
	IssueBearer bool

	mu            sync.Mutex
	accounts      map[string]*account
	access        map[string]int64
	refresh       map[string]int64
	bearer        map[string]int64
	events        map[int64]*models.Event
	registrations map[int64]map[int64]bool
	overrides     map[string]int
	calls         []Call
	nextUserID    int64
	nextEventID   int64
}

// New starts a fake backend. It is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		accounts:      map[string]*account{},
		access:        map[string]int64{},
		refresh:       map[string]int64{},
		bearer:        map[string]int64{},
		events:        map[int64]*models.Event{},
		registrations: map[int64]map[int64]bool{},
		overrides:     map[string]int{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// APIURL is the base URL services should be configured with.
func (s *Server) APIURL() string { return s.URL + "/api" }

// ZipURL is the base URL of the fake ViaCEP endpoint.
func (s *Server) ZipURL() string { return s.URL + "/ws" }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.override)

	r.Get("/ws/{cep}/json/", s.lookupZip)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/refresh", s.refreshSession)
		r.Post("/auth/logout", s.logout)
		r.Post("/user", s.signUp)
		r.Get("/events", s.listEvents)
		r.Get("/events/{id}", s.getEvent)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/user/me", s.me)
			r.Put("/user/profile", s.updateProfile)
			r.Put("/user/password", s.updatePassword)
			r.Post("/user/avatar", s.uploadAvatar)
			r.Post("/user/delete", s.deleteAccount)

			r.Post("/events", s.createEvent)
			r.Put("/events/{id}", s.updateEvent)
			r.Delete("/events/{id}", s.deleteEvent)
			r.Get("/events/user/{userId}", s.eventsByOrganizer)
			r.Get("/events/registered/{userId}", s.registeredEvents)
			r.Post("/events/{id}/register", s.register)
			r.Get("/events/{id}/register/{userId}", s.isRegistered)
			r.Delete("/events/{id}/register/{userId}", s.unregister)
		})
	})
	return r
}

// AddUser creates an account and returns its id.
func (s *Server) AddUser(email, password, name, roleName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, name, "", roleName)
}

func (s *Server) addUserLocked(email, password, name, phone, roleName string) int64 {
	s.nextUserID++
	roleID := 2
	if roleName == models.RoleAdmin {
		roleID = 1
	}
	s.accounts[email] = &account{
		password: password,
		profile: models.UserProfile{
			ID:          s.nextUserID,
			Name:        name,
			Email:       email,
			PhoneNumber: phone,
			Role:        models.RoleRef{RoleID: roleID, RoleName: roleName},
		},
	}
	return s.nextUserID
}

// AddEvent stores e, assigning an id when it has none.
func (s *Server) AddEvent(e models.Event) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		s.nextEventID++
		e.ID = s.nextEventID
	} else if e.ID > s.nextEventID {
		s.nextEventID = e.ID
	}
	s.events[e.ID] = &e
	return e.ID
}

// ExpireAccess invalidates every access cookie and bearer token. Refresh
// cookies stay valid, so the next protected call can recover.
func (s *Server) ExpireAccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = map[string]int64{}
	s.bearer = map[string]int64{}
}

// RevokeAll invalidates every credential.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = map[string]int64{}
	s.refresh = map[string]int64{}
	s.bearer = map[string]int64{}
}

// FailWith makes every request matching method and route path answer
// status until cleared with status 0.
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.overrides, method+" "+path)
		return
	}
	s.overrides[method+" "+path] = status
}

// Calls returns the requests seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts requests with the given method and path.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Registered reports whether userID is registered for eventID.
func (s *Server) Registered(eventID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrations[eventID][userID]
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := Call{Method: r.Method, Path: r.URL.Path, Bearer: bearerToken(r)}
		if ck, err := r.Cookie(AccessCookie); err == nil {
			c.Cookie = ck.Value
		}
		s.mu.Lock()
		s.calls = append(s.calls, c)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) override(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := s.sessionUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Sessão expirada")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, uid)))
	})
}

func (s *Server) sessionUser(r *http.Request) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, err := r.Cookie(AccessCookie); err == nil {
		if uid, ok := s.access[c.Value]; ok {
			return uid, true
		}
	}
	if tok := bearerToken(r); tok != "" {
		if uid, ok := s.bearer[tok]; ok {
			return uid, true
		}
	}
	return 0, false
}

func currentUser(r *http.Request) int64 {
	uid, _ := r.Context().Value(userKey{}).(int64)
	return uid
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func (s *Server) accountByID(uid int64) *account {
	for _, a := range s.accounts {
		if a.profile.ID == uid {
			return a
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return v, err == nil
}

func setSessionCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{Name: AccessCookie, Value: access, Path: "/", HttpOnly: true})
	if refresh != "" {
		http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: refresh, Path: "/", HttpOnly: true})
	}
}

func clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: AccessCookie, Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Path: "/", MaxAge: -1})
}

func sortedEvents(m map[int64]*models.Event, keep func(*models.Event) bool) []models.Event {
	out := []models.Event{}
	for _, e := range m {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

func newToken() string { return uuid.NewString() }
