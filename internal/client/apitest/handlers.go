package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[in.Username]
	if !ok || a.password != in.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}
	access, refresh := newToken(), newToken()
	s.access[access] = a.profile.ID
	s.refresh[refresh] = a.profile.ID
	out := models.LoginResponse{Message: "Login realizado com sucesso"}
	if s.IssueBearer {
		out.AccessToken = newToken()
		s.bearer[out.AccessToken] = a.profile.ID
	}
	s.mu.Unlock()

	setSessionCookies(w, access, refresh)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) refreshSession(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)

	s.mu.Lock()
	uid, ok := int64(0), false
	if err == nil {
		uid, ok = s.refresh[c.Value]
	}
	if !ok || s.FailRefresh {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Refresh token inválido")
		return
	}
	access := newToken()
	s.access[access] = uid
	s.mu.Unlock()

	setSessionCookies(w, access, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.sessionUser(r)
	if !ok {
		writeError(w, http.StatusForbidden, "Sessão inexistente")
		return
	}

	s.mu.Lock()
	for k, v := range s.access {
		if v == uid {
			delete(s.access, k)
		}
	}
	for k, v := range s.refresh {
		if v == uid {
			delete(s.refresh, k)
		}
	}
	s.mu.Unlock()

	clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var in models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[in.Email]; exists {
		writeError(w, http.StatusConflict, "E-mail já cadastrado")
		return
	}
	role := models.RoleUser
	if in.RoleID == 1 {
		role = models.RoleAdmin
	}
	uid := s.addUserLocked(in.Email, in.Password, in.Name, in.PhoneNumber, role)
	writeJSON(w, http.StatusCreated, s.accountByID(uid).profile)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a := s.accountByID(currentUser(r))
	s.mu.Unlock()
	if a == nil {
		writeError(w, http.StatusUnauthorized, "Usuário não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, a.profile)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountByID(currentUser(r))
	if in.Name != "" {
		a.profile.Name = in.Name
	}
	if in.PhoneNumber != "" {
		a.profile.PhoneNumber = in.PhoneNumber
	}
	if in.Email != "" && in.Email != a.profile.Email {
		delete(s.accounts, a.profile.Email)
		a.profile.Email = in.Email
		s.accounts[in.Email] = a
	}
	writeJSON(w, http.StatusOK, a.profile)
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	var in models.PasswordUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountByID(currentUser(r))
	if a.password != in.CurrentPassword {
		writeError(w, http.StatusBadRequest, "Senha atual incorreta")
		return
	}
	a.password = in.NewPassword
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Arquivo ausente")
		return
	}
	defer f.Close()
	_, _ = io.Copy(io.Discard, f)

	uid := currentUser(r)
	url := fmt.Sprintf("/avatars/%d/%s", uid, hdr.Filename)

	s.mu.Lock()
	s.accountByID(uid).profile.Avatar = url
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AvatarResponse{AvatarURL: url})
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountByID(currentUser(r))
	if a.password != in.Password {
		writeError(w, http.StatusBadRequest, "Senha incorreta")
		return
	}
	delete(s.accounts, a.profile.Email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.EventFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Location: q.Get("location"),
		Status:   q.Get("status"),
	}
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	s.mu.Lock()
	all := sortedEvents(s.events, func(e *models.Event) bool { return f.Match(*e) })
	s.mu.Unlock()

	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	writeJSON(w, http.StatusOK, models.EventPage{
		Events:     all[start:end],
		Pagination: models.NewPage(page, size, len(all)),
	})
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	s.mu.Lock()
	e := s.events[id]
	s.mu.Unlock()
	if !ok || e == nil {
		writeError(w, http.StatusNotFound, "Evento não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var in models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	loc := in.Location
	e := models.Event{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		EventDate:   in.EventDate,
		EventType:   in.EventType,
		MaxSubs:     in.MaxSubs,
		CreatedBy:   in.CreatedBy,
		Location:    &loc,
	}
	e.ID = s.AddEvent(e)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var in models.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[id]
	if e == nil {
		writeError(w, http.StatusNotFound, "Evento não encontrado")
		return
	}
	if e.CreatedBy != currentUser(r) {
		writeError(w, http.StatusForbidden, "Sem permissão")
		return
	}
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.EventDate != nil {
		e.EventDate = *in.EventDate
	}
	if in.MaxSubs != nil {
		e.MaxSubs = *in.MaxSubs
	}
	e.Version++
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[id]
	if e == nil {
		writeError(w, http.StatusNotFound, "Evento não encontrado")
		return
	}
	if e.CreatedBy != currentUser(r) {
		writeError(w, http.StatusForbidden, "Sem permissão")
		return
	}
	delete(s.events, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) eventsByOrganizer(w http.ResponseWriter, r *http.Request) {
	uid, _ := pathID(r, "userId")
	s.mu.Lock()
	out := sortedEvents(s.events, func(e *models.Event) bool { return e.CreatedBy == uid })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) registeredEvents(w http.ResponseWriter, r *http.Request) {
	uid, _ := pathID(r, "userId")
	s.mu.Lock()
	out := sortedEvents(s.events, func(e *models.Event) bool { return s.registrations[e.ID][uid] })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	eventID, _ := pathID(r, "id")
	var in models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.UserID == 0 {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[eventID]
	if e == nil {
		writeError(w, http.StatusNotFound, "Evento não encontrado")
		return
	}
	if s.registrations[eventID][in.UserID] {
		writeError(w, http.StatusConflict, "Usuário já inscrito")
		return
	}
	if s.registrations[eventID] == nil {
		s.registrations[eventID] = map[int64]bool{}
	}
	s.registrations[eventID][in.UserID] = true
	e.SubscribedCount++
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Inscrição realizada"})
}

func (s *Server) isRegistered(w http.ResponseWriter, r *http.Request) {
	eventID, _ := pathID(r, "id")
	uid, _ := pathID(r, "userId")

	s.mu.Lock()
	ok := s.registrations[eventID][uid]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Inscrição não encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": true})
}

func (s *Server) unregister(w http.ResponseWriter, r *http.Request) {
	eventID, _ := pathID(r, "id")
	uid, _ := pathID(r, "userId")

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registrations[eventID][uid] {
		writeError(w, http.StatusNotFound, "Inscrição não encontrada")
		return
	}
	delete(s.registrations[eventID], uid)
	if e := s.events[eventID]; e != nil && e.SubscribedCount > 0 {
		e.SubscribedCount--
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupZip(w http.ResponseWriter, r *http.Request) {
	cep := chi.URLParam(r, "cep")
	if cep != "64000000" {
		writeJSON(w, http.StatusOK, map[string]any{"erro": true})
		return
	}
	writeJSON(w, http.StatusOK, models.Address{
		ZipCode:      "64000-000",
		Street:       "Praça Marechal Deodoro",
		Neighborhood: "Centro",
		City:         "Teresina",
		State:        "PI",
	})
}
