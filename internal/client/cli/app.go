package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/client/config"
	"github.com/alphasolutions/piauieventos-cli/internal/client/guard"
	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/router"
	"github.com/alphasolutions/piauieventos-cli/internal/client/services"
	"github.com/alphasolutions/piauieventos-cli/internal/client/session"
	"github.com/alphasolutions/piauieventos-cli/internal/client/storage"
	"github.com/alphasolutions/piauieventos-cli/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	repo   storage.Repository

	authService         services.AuthService
	eventService        services.EventService
	registrationService services.RegistrationService
	userService         services.UserService

	authGuard *guard.AuthGuard
	router    *router.Router

	reader *bufio.Reader
	out    io.Writer
	outMu  sync.Mutex
}

// NewApp opens the local store and wires the transport, the services, the
// guards and the router. Prompts read from in and everything user-facing is
// written to out.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := storage.InitDatabase(ctx, c.StoragePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	repo := storage.NewSQLiteRepository(db)

	jar, err := client.NewPersistentJar(ctx, repo, c.APIBaseURL, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	var tokens *client.TokenStore
	if c.BearerFallback {
		tokens = client.NewTokenStore(repo)
	}

	icp := client.NewInterceptor(http.DefaultTransport, jar, tokens, c.APIBaseURL, log)
	api, err := client.NewHTTPClient(c.APIBaseURL, c.ZipLookupURL, icp, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.NewStore(repo, log)
	as := services.NewAuthService(api, store, repo, tokens, log, jar)

	ag := guard.NewAuthGuard(as, c.RevalidateInterval, c.RequestTimeout, log)
	rt := router.New(router.DefaultRoutes(router.Guards{
		Auth:  ag,
		Soft:  guard.NewSoftAuthGuard(ag),
		Admin: guard.NewRoleGuard(as, ag, models.RoleAdmin),
	}), log)

	a := &App{
		config:              c,
		log:                 log.With("component", "cli"),
		db:                  db,
		repo:                repo,
		authService:         as,
		eventService:        services.NewEventService(api, as),
		registrationService: services.NewRegistrationService(api, as),
		userService:         services.NewUserService(api, as, store),
		authGuard:           ag,
		router:              rt,
		reader:              bufio.NewReader(in),
		out:                 out,
	}

	icp.SetRefresher(api.Refresh)
	icp.SetSessionLostHandler(a.onSessionLost)

	return a, nil
}

// Run restores the session, shows the landing view and runs the REPL until
// the user leaves or ctx ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.println("Bem-vindo ao Piauí Eventos (digite 'help' para ver os comandos)")

	watchCtx, stopWatcher := context.WithCancel(ctx)
	watcherDone := a.startSessionWatcher(watchCtx)
	defer func() {
		stopWatcher()
		<-watcherDone
	}()

	if _, err := a.authService.Init(ctx); err != nil {
		return err
	}

	if err := a.Go(ctx, "/"); err != nil {
		report(err)
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Close waits for background session checks and closes the local store.
func (a *App) Close() error {
	a.authGuard.Wait()
	return a.db.Close()
}

// onSessionLost runs when a protected request could not be recovered by a
// refresh. The local session is dropped and the router moves to the login
// view, remembering the current location.
func (a *App) onSessionLost(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if err := a.authService.ClearLocalSession(ctx); err != nil {
		a.log.Error(ctx, "clear local session", "error", err)
	}
	if _, err := a.router.RedirectToLogin(ctx); err != nil {
		a.log.Warn(ctx, "redirect to login", "error", err)
	}
	a.println("Sua sessão expirou. Digite 'login' para entrar novamente.")
}

func (a *App) isLoggedIn() bool {
	return a.authService.CurrentUser() != nil
}

func (a *App) status() string {
	s := describeUser(a.authService.CurrentUser())
	if cur := a.router.Current(); cur != "" {
		s += " " + cur
	}
	return s
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format+"\n", args...)
}
