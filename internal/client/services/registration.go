package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

// UserError carries a message fit for showing to the user next to the
// underlying error.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

// RegistrationMessage translates a registration failure into a user
// message.
func RegistrationMessage(err error) string {
	if errors.Is(err, common.ErrNotAuthenticated) {
		return "Usuário não autenticado."
	}

	status := client.StatusOf(err)
	switch {
	case status == http.StatusBadRequest:
		return "Dados inválidos. Verifique as informações."
	case status == http.StatusUnauthorized:
		return "Sessão expirada. Por favor, faça login novamente."
	case status == http.StatusForbidden:
		return "Você não tem permissão para realizar esta ação."
	case status == http.StatusNotFound:
		return "Evento ou inscrição não encontrada."
	case status == http.StatusConflict:
		return "Você já está inscrito neste evento."
	case status >= 500:
		return "Erro no servidor. Tente novamente em alguns minutos."
	case status == 0 && errors.Is(err, common.ErrUnavailable):
		return "Erro de conexão. Verifique sua internet."
	case status != 0:
		return fmt.Sprintf("Erro %d: %s", status, http.StatusText(status))
	}
	return "Erro desconhecido."
}

// RegistrationService subscribes the signed-in user to events.
type RegistrationService interface {
	Register(ctx context.Context, eventID int64) error
	Unregister(ctx context.Context, eventID int64) error
	IsRegistered(ctx context.Context, eventID int64) (bool, error)
}

type registrationService struct {
	client client.Client
	auth   AuthService
}

func NewRegistrationService(c client.Client, auth AuthService) RegistrationService {
	return &registrationService{client: c, auth: auth}
}

func (s *registrationService) userID() (int64, error) {
	u := s.auth.CurrentUser()
	if u == nil {
		return 0, common.ErrNotAuthenticated
	}
	return u.ID, nil
}

func wrapRegistration(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{Message: RegistrationMessage(err), Err: err}
}

func (s *registrationService) Register(ctx context.Context, eventID int64) error {
	uid, err := s.userID()
	if err != nil {
		return wrapRegistration(err)
	}
	return wrapRegistration(s.client.RegisterForEvent(ctx, eventID, uid))
}

func (s *registrationService) Unregister(ctx context.Context, eventID int64) error {
	uid, err := s.userID()
	if err != nil {
		return wrapRegistration(err)
	}
	return wrapRegistration(s.client.UnregisterFromEvent(ctx, eventID, uid))
}

// IsRegistered reports false, without error, when nobody is signed in.
func (s *registrationService) IsRegistered(ctx context.Context, eventID int64) (bool, error) {
	uid, err := s.userID()
	if err != nil {
		return false, nil
	}
	ok, err := s.client.IsRegistered(ctx, eventID, uid)
	return ok, wrapRegistration(err)
}
