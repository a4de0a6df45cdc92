package cli

import (
	"context"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
)

// startSessionWatcher prints sign-in and sign-out transitions as the
// session store publishes them. The returned channel is closed once the
// watcher has stopped.
func (a *App) startSessionWatcher(ctx context.Context) <-chan struct{} {
	updates, cancel := a.authService.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer cancel()
		a.watchSession(ctx, updates)
	}()

	return done
}

func (a *App) watchSession(ctx context.Context, updates <-chan *models.User) {
	var prev *models.User
	first := true

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if first {
				prev, first = u, false
				continue
			}
			switch {
			case prev == nil && u != nil:
				a.printf("Conectado como %s.", describeUser(u))
			case prev != nil && u == nil:
				a.println("Sessão encerrada.")
			case prev != nil && u != nil && prev.ID != u.ID:
				a.printf("Conectado como %s.", describeUser(u))
			}
			prev = u
		}
	}
}
