package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/router"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

const (
	inputDateLayout = "02/01/2006 15:04"
	eventDateLayout = "2006-01-02T15:04:05"
)

// Events lists events. args are filters as accepted by
// models.FilterFromArgs plus page=N and size=N.
func (a *App) Events(ctx context.Context, args []string) error {
	var filterArgs []string
	q := make(map[string]string)
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if ok && (name == "page" || name == "size") {
			if _, err := strconv.Atoi(value); err != nil {
				return fmt.Errorf("%s: %w", name, models.ErrIncorrectFilter)
			}
			q[name] = value
			continue
		}
		filterArgs = append(filterArgs, arg)
	}

	filter, err := models.FilterFromArgs(filterArgs)
	if err != nil {
		return err
	}
	v := filter.Values()
	for k, s := range q {
		v.Set(k, s)
	}

	target := defaultLanding
	if enc := v.Encode(); enc != "" {
		target += "?" + enc
	}
	return a.Go(ctx, target)
}

func (a *App) Event(ctx context.Context, id string) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	return a.Go(ctx, "/event/"+id)
}

// Join subscribes the signed-in user to an event. Visitors are sent to the
// login view, which returns to the event afterwards.
func (a *App) Join(ctx context.Context, id string) error {
	eventID, err := parseID(id)
	if err != nil {
		return err
	}
	if !a.isLoggedIn() {
		a.println("Faça login para se inscrever.")
		return a.Go(ctx, router.LoginURL("/event/"+id))
	}
	if err := a.registrationService.Register(ctx, eventID); err != nil {
		return err
	}
	a.println("Inscrição realizada com sucesso!")
	return nil
}

func (a *App) Leave(ctx context.Context, id string) error {
	eventID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := a.registrationService.Unregister(ctx, eventID); err != nil {
		return err
	}
	a.println("Inscrição cancelada.")
	return nil
}

func (a *App) MyEvents(ctx context.Context) error {
	return a.Go(ctx, "/my-events")
}

func (a *App) CreateEvent(ctx context.Context) error {
	return a.Go(ctx, "/create-event")
}

func (a *App) Admin(ctx context.Context) error {
	return a.Go(ctx, "/admin")
}

// DeleteEvent removes an event the user organizes, after confirmation.
func (a *App) DeleteEvent(ctx context.Context, id string) error {
	eventID, err := parseID(id)
	if err != nil {
		return err
	}
	return a.within(ctx, "/my-events", router.ViewMyEvents, func(ctx context.Context) error {
		ok, err := confirm(a.reader, fmt.Sprintf("Excluir o evento %d?", eventID), a.out)
		if err != nil || !ok {
			return err
		}
		if err := a.eventService.Delete(ctx, eventID); err != nil {
			return err
		}
		a.println("Evento excluído.")
		return nil
	})
}

func (a *App) createEventView(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Nome do evento", a.out)
	if err != nil {
		return err
	}
	description, err := getMultiline(a.reader, "Descrição", a.out)
	if err != nil {
		return err
	}
	rawDate, err := getSimpleText(a.reader, "Data e hora (dd/mm/aaaa hh:mm)", a.out)
	if err != nil {
		return err
	}
	eventType, err := getSimpleText(a.reader, "Tipo do evento", a.out)
	if err != nil {
		return err
	}
	rawMax, err := getSimpleText(a.reader, "Limite de inscritos (0 para ilimitado)", a.out)
	if err != nil {
		return err
	}
	place, err := getSimpleText(a.reader, "Local", a.out)
	if err != nil {
		return err
	}
	address, err := getSimpleText(a.reader, "Endereço", a.out)
	if err != nil {
		return err
	}

	req, err := buildEventRequest(name, description, rawDate, eventType, rawMax, place, address)
	if err != nil {
		return err
	}

	e, err := a.eventService.Create(ctx, req)
	if err != nil {
		return err
	}
	a.printf("Evento criado (#%d).", e.ID)
	return a.Go(ctx, fmt.Sprintf("/event/%d", e.ID))
}

func buildEventRequest(name, description, rawDate, eventType, rawMax, place, address string) (models.EventRequest, error) {
	if name == "" {
		return models.EventRequest{}, fmt.Errorf("nome é obrigatório: %w", common.ErrValidation)
	}
	when, err := time.Parse(inputDateLayout, rawDate)
	if err != nil {
		return models.EventRequest{}, fmt.Errorf("data %q inválida: %w", rawDate, common.ErrValidation)
	}
	maxSubs := 0
	if rawMax != "" {
		maxSubs, err = strconv.Atoi(rawMax)
		if err != nil || maxSubs < 0 {
			return models.EventRequest{}, fmt.Errorf("limite %q inválido: %w", rawMax, common.ErrValidation)
		}
	}

	return models.EventRequest{
		Name:        name,
		Description: description,
		EventDate:   when.Format(eventDateLayout),
		EventType:   eventType,
		MaxSubs:     maxSubs,
		Location: models.EventLocation{
			PlaceName:   place,
			FullAddress: address,
		},
	}, nil
}
