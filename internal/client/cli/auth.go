package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/router"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	confirm       = Confirm
)

const defaultLanding = "/events"

// Login opens the login view. When the router already sits on a login URL,
// for instance after the session expired, its returnUrl is kept.
func (a *App) Login(ctx context.Context) error {
	target := a.router.Current()
	if !strings.HasPrefix(target, common.LoginRoute) {
		target = common.LoginRoute
	}
	return a.Go(ctx, target)
}

// SignUp opens the registration view.
func (a *App) SignUp(ctx context.Context) error {
	return a.Go(ctx, "/register")
}

// Logout ends the session on both sides and lands on the login route
// without prompting for credentials.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Você não está conectado.")
		return nil
	}
	// A pending revalidation must not put the user back after the logout.
	a.authGuard.Wait()
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	if _, err := a.router.Navigate(ctx, common.LoginRoute); err != nil {
		return err
	}
	a.println("Até logo!")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.authService.CurrentUser()
	if u == nil {
		a.println("Não conectado.")
		return nil
	}
	a.printf("%s <%s>, perfil %s", u.Name, u.Email, u.Role)
	return nil
}

// loginView prompts for credentials, suggesting the remembered e-mail, and
// continues to returnURL on success.
func (a *App) loginView(ctx context.Context, returnURL string) error {
	remembered, err := a.authService.RememberedEmail(ctx)
	if err != nil {
		a.log.Warn(ctx, "read remembered email", "error", err)
	}

	prompt := "E-mail"
	if remembered != "" {
		prompt = fmt.Sprintf("E-mail [%s]", remembered)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = remembered
	}
	if email == "" {
		return fmt.Errorf("e-mail é obrigatório: %w", common.ErrValidation)
	}

	password, err := getPassword(a.reader, "Senha", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	if err := a.authService.RememberEmail(ctx, email); err != nil {
		a.log.Warn(ctx, "remember email", "error", err)
	}

	a.printf("Bem-vindo, %s!", u.Name)
	return a.Go(ctx, safeReturnURL(returnURL))
}

// safeReturnURL only follows in-app paths and never loops back to login.
func safeReturnURL(s string) string {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, common.LoginRoute) {
		return defaultLanding
	}
	return s
}

func (a *App) signUpView(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Nome", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "E-mail", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Telefone", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Senha", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	again, err := getPassword(a.reader, "Confirme a senha", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if name == "" || email == "" || len(password) == 0 {
		return fmt.Errorf("nome, e-mail e senha são obrigatórios: %w", common.ErrValidation)
	}
	if string(password) != string(again) {
		return fmt.Errorf("as senhas não conferem: %w", common.ErrValidation)
	}

	err = a.authService.SignUp(ctx, models.SignUpRequest{
		Name:        name,
		Email:       email,
		PhoneNumber: phone,
		Password:    string(password),
	})
	if err != nil {
		return err
	}

	a.println("Conta criada! Faça login para continuar.")
	if err := a.authService.RememberEmail(ctx, email); err != nil {
		a.log.Warn(ctx, "remember email", "error", err)
	}
	return a.Go(ctx, router.LoginURL(""))
}
