package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/router"
	"github.com/alphasolutions/piauieventos-cli/internal/client/services"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

// Go navigates to target and renders the view the router settled on, which
// may differ from target when a guard redirected.
func (a *App) Go(ctx context.Context, target string) error {
	nav, err := a.router.Navigate(ctx, target)
	if err != nil {
		return err
	}
	return a.render(ctx, nav)
}

// within navigates to target and runs fn only when the router committed the
// expected view. Any other outcome, usually a guard redirect, is rendered
// instead.
func (a *App) within(ctx context.Context, target, view string, fn func(ctx context.Context) error) error {
	nav, err := a.router.Navigate(ctx, target)
	if err != nil {
		return err
	}
	if nav.Route.Name != view {
		return a.render(ctx, nav)
	}
	return fn(ctx)
}

func (a *App) render(ctx context.Context, nav *router.Navigation) error {
	switch nav.Route.Name {
	case router.ViewEvents:
		return a.showEvents(ctx, nav.Query)
	case router.ViewEvent:
		return a.showEvent(ctx, nav.Params["id"])
	case router.ViewLogin:
		return a.loginView(ctx, nav.Query.Get(common.ReturnURLParam))
	case router.ViewRegister:
		return a.signUpView(ctx)
	case router.ViewMyEvents:
		return a.showMyEvents(ctx)
	case router.ViewCreateEvent:
		return a.createEventView(ctx)
	case router.ViewSettings:
		return a.showProfile(ctx)
	case router.ViewAdmin:
		return a.showAdmin(ctx)
	case router.ViewUnauthorized:
		a.println("Acesso negado: você não tem permissão para acessar esta página.")
		return nil
	}
	return fmt.Errorf("%s: %w", nav.URL, router.ErrNoRoute)
}

func (a *App) showEvents(ctx context.Context, q url.Values) error {
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	var args []string
	for k, vs := range q {
		if k == "page" || k == "size" {
			continue
		}
		for _, v := range vs {
			args = append(args, k+"="+v)
		}
	}
	filter, err := models.FilterFromArgs(args)
	if err != nil {
		return err
	}

	res, err := a.eventService.List(ctx, filter, page, size)
	if err != nil {
		return err
	}

	if len(res.Events) == 0 {
		a.println("Nenhum evento encontrado.")
		return nil
	}
	for _, e := range res.Events {
		a.printf("[%d] %s | %s | %s | %s", e.ID, e.Name, e.Date(), formatPrice(e.Price), formatSpots(e))
	}
	p := res.Pagination
	a.printf("Página %d de %d (%d eventos)", p.Page, max(p.TotalPages, 1), p.Total)
	return nil
}

func (a *App) showEvent(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	e, err := a.eventService.Get(ctx, id)
	if err != nil {
		return err
	}

	a.printf("%s (#%d)", e.Name, e.ID)
	a.printf("Data: %s", e.Date())
	if c := e.Category(); c != "" {
		a.printf("Categoria: %s", c)
	}
	if e.Location != nil {
		a.printf("Local: %s, %s", e.Location.PlaceName, e.Location.FullAddress)
	}
	a.printf("Preço: %s | %s", formatPrice(e.Price), formatSpots(*e))
	if e.Description != "" {
		a.println(e.Description)
	}

	if !a.isLoggedIn() {
		a.printf("Faça login para se inscrever (join %d).", e.ID)
		return nil
	}
	registered, err := a.registrationService.IsRegistered(ctx, id)
	if err != nil {
		a.log.Warn(ctx, "registration status", "event_id", id, "error", err)
		return nil
	}
	if registered {
		a.printf("Você está inscrito (leave %d para cancelar).", e.ID)
	} else {
		a.printf("Inscreva-se com join %d.", e.ID)
	}
	return nil
}

func (a *App) showMyEvents(ctx context.Context) error {
	organized, err := a.eventService.Organized(ctx)
	if err != nil {
		return err
	}
	registered, err := a.eventService.Registered(ctx)
	if err != nil {
		return err
	}

	a.println("Eventos que organizo:")
	printEventList(a, organized)
	a.println("Eventos em que estou inscrito:")
	printEventList(a, registered)
	return nil
}

func printEventList(a *App, events []models.Event) {
	if len(events) == 0 {
		a.println("  (nenhum)")
		return
	}
	for _, e := range events {
		a.printf("  [%d] %s | %s", e.ID, e.Name, e.Date())
	}
}

func (a *App) showProfile(ctx context.Context) error {
	u, err := a.userService.Profile(ctx)
	if err != nil {
		return err
	}
	a.printf("Nome: %s", u.Name)
	a.printf("E-mail: %s", u.Email)
	if u.PhoneNumber != "" {
		a.printf("Telefone: %s", u.PhoneNumber)
	}
	a.printf("Perfil: %s", u.Role)
	if u.Avatar != "" {
		a.printf("Avatar: %s", u.Avatar)
	}
	return nil
}

func (a *App) showAdmin(ctx context.Context) error {
	cats, err := a.eventService.Categories(ctx)
	if err != nil {
		return err
	}
	res, err := a.eventService.List(ctx, models.EventFilter{}, services.DefaultPage, services.DefaultPageSize)
	if err != nil {
		return err
	}

	a.println("Painel administrativo")
	a.printf("Eventos publicados: %d", res.Pagination.Total)
	if len(cats) == 0 {
		a.println("Categorias: (nenhuma)")
		return nil
	}
	a.printf("Categorias: %s", strings.Join(cats, ", "))
	return nil
}
