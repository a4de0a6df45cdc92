package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/router"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

const settingsRoute = "/settings"

func (a *App) Profile(ctx context.Context) error {
	return a.Go(ctx, settingsRoute)
}

// EditProfile updates name, e-mail and phone. An empty answer keeps the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	return a.within(ctx, settingsRoute, router.ViewSettings, func(ctx context.Context) error {
		cur := a.authService.CurrentUser()
		if cur == nil {
			return common.ErrNotAuthenticated
		}

		name, err := getSimpleText(a.reader, fmt.Sprintf("Nome [%s]", cur.Name), a.out)
		if err != nil {
			return err
		}
		email, err := getSimpleText(a.reader, fmt.Sprintf("E-mail [%s]", cur.Email), a.out)
		if err != nil {
			return err
		}
		phone, err := getSimpleText(a.reader, fmt.Sprintf("Telefone [%s]", cur.PhoneNumber), a.out)
		if err != nil {
			return err
		}

		upd := models.ProfileUpdate{
			Name:        orDefault(name, cur.Name),
			Email:       orDefault(email, cur.Email),
			PhoneNumber: orDefault(phone, cur.PhoneNumber),
		}
		u, err := a.userService.UpdateProfile(ctx, upd)
		if err != nil {
			return err
		}
		a.printf("Perfil atualizado: %s <%s>", u.Name, u.Email)
		return nil
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (a *App) Password(ctx context.Context) error {
	return a.within(ctx, settingsRoute, router.ViewSettings, func(ctx context.Context) error {
		current, err := getPassword(a.reader, "Senha atual", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(current)

		next, err := getPassword(a.reader, "Nova senha", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(next)

		again, err := getPassword(a.reader, "Confirme a nova senha", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(again)

		if len(next) == 0 {
			return fmt.Errorf("a nova senha é obrigatória: %w", common.ErrValidation)
		}
		if string(next) != string(again) {
			return fmt.Errorf("as senhas não conferem: %w", common.ErrValidation)
		}

		if err := a.userService.UpdatePassword(ctx, string(current), string(next)); err != nil {
			return err
		}
		a.println("Senha alterada.")
		return nil
	})
}

func (a *App) Avatar(ctx context.Context, path string) error {
	return a.within(ctx, settingsRoute, router.ViewSettings, func(ctx context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		avatarURL, err := a.userService.UploadAvatar(ctx, filepath.Base(path), f)
		if err != nil {
			return err
		}
		a.printf("Avatar atualizado: %s", avatarURL)
		return nil
	})
}

// DeleteAccount removes the account after the password is typed again and
// the user confirms.
func (a *App) DeleteAccount(ctx context.Context) error {
	return a.within(ctx, settingsRoute, router.ViewSettings, func(ctx context.Context) error {
		ok, err := confirm(a.reader, "Excluir sua conta? Esta ação não pode ser desfeita.", a.out)
		if err != nil || !ok {
			return err
		}

		password, err := getPassword(a.reader, "Senha", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		a.authGuard.Wait()
		if err := a.userService.DeleteAccount(ctx, string(password)); err != nil {
			return err
		}
		if _, err := a.router.Navigate(ctx, defaultLanding); err != nil {
			a.log.Warn(ctx, "navigate after account deletion", "error", err)
		}
		a.println("Conta excluída.")
		return nil
	})
}

// ZipCode looks an address up by its CEP. It needs no session.
func (a *App) ZipCode(ctx context.Context, zip string) error {
	addr, err := a.userService.LookupZipCode(ctx, zip)
	if err != nil {
		return err
	}
	a.printf("%s, %s - %s/%s (CEP %s)", addr.Street, addr.Neighborhood, addr.City, addr.State, addr.ZipCode)
	return nil
}

// Forget drops the session and every locally stored value, the remembered
// e-mail included.
func (a *App) Forget(ctx context.Context) error {
	ok, err := confirm(a.reader, "Apagar todos os dados locais?", a.out)
	if err != nil || !ok {
		return err
	}
	a.authGuard.Wait()
	if err := a.authService.ClearLocalSession(ctx); err != nil {
		return err
	}
	if err := a.repo.Clear(ctx); err != nil {
		return err
	}
	a.println("Dados locais apagados.")
	return nil
}
