package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/router"
	"github.com/alphasolutions/piauieventos-cli/internal/client/services"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

var errInvalidID = errors.New("id inválido")

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", s, errInvalidID)
	}
	return id, nil
}

// errorMessage turns err into the line shown to the user.
func errorMessage(err error) string {
	var ue *services.UserError
	if errors.As(err, &ue) {
		return ue.Message
	}

	switch {
	case errors.Is(err, router.ErrNavigationCancelled):
		return "navegação cancelada"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "faça login para continuar"
	case errors.Is(err, client.ErrInvalidZipCode):
		return "CEP inválido, use 8 dígitos"
	case errors.Is(err, common.ErrUnavailable):
		return "servidor indisponível, tente novamente mais tarde"
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func formatPrice(p float64) string {
	if p == 0 {
		return "Gratuito"
	}
	return "R$ " + strings.Replace(strconv.FormatFloat(p, 'f', 2, 64), ".", ",", 1)
}

func formatSpots(e models.Event) string {
	left := e.SpotsLeft()
	switch {
	case left < 0:
		return "vagas ilimitadas"
	case left == 0:
		return "esgotado"
	case left == 1:
		return "1 vaga"
	}
	return fmt.Sprintf("%d vagas", left)
}

func describeUser(u *models.User) string {
	if u == nil {
		return "visitante"
	}
	return fmt.Sprintf("%s (%s)", u.Name, u.Role)
}
