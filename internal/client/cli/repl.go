package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Go(ctx context.Context, target string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	SignUp(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Events(ctx context.Context, args []string) error
	Event(ctx context.Context, id string) error
	Join(ctx context.Context, id string) error
	Leave(ctx context.Context, id string) error
	MyEvents(ctx context.Context) error
	CreateEvent(ctx context.Context) error
	DeleteEvent(ctx context.Context, id string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Password(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	DeleteAccount(ctx context.Context) error
	ZipCode(ctx context.Context, zip string) error
	Admin(ctx context.Context) error
	Forget(ctx context.Context) error
}

const (
	helpGuest = "Comandos: events [filtros], event <id>, go <caminho>, login, signup, cep <cep>, forget, help, exit"
	helpUser  = "Comandos: events [filtros], event <id>, join <id>, leave <id>, my-events, create-event, " +
		"delete-event <id>, profile, edit-profile, password, avatar <arquivo>, delete-account, " +
		"cep <cep>, admin, go <caminho>, whoami, logout, forget, help, exit"
)

// runREPL starts the read-eval-print loop of the events CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The prompt shows statusFn. The loop exits on
// EOF, on ctx cancellation or when the user types "exit" or "quit".
//
// Command errors are reported on a single line and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("eventos %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "go":
			if len(args) != 1 {
				printlnFn("Uso: go <caminho>")
				continue
			}
			report(a.Go(ctx, args[0]))

		case "login":
			report(a.Login(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "signup", "register":
			report(a.SignUp(ctx))

		case "whoami":
			report(a.WhoAmI(ctx))

		case "events", "l":
			report(a.Events(ctx, args))

		case "event", "join", "leave", "delete-event":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Uso: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "event":
				report(a.Event(ctx, args[0]))
			case "join":
				report(a.Join(ctx, args[0]))
			case "leave":
				report(a.Leave(ctx, args[0]))
			default:
				report(a.DeleteEvent(ctx, args[0]))
			}

		case "my-events":
			report(a.MyEvents(ctx))

		case "create-event":
			report(a.CreateEvent(ctx))

		case "profile", "settings":
			report(a.Profile(ctx))

		case "edit-profile":
			report(a.EditProfile(ctx))

		case "password":
			report(a.Password(ctx))

		case "avatar":
			if len(args) != 1 {
				printlnFn("Uso: avatar <arquivo>")
				continue
			}
			report(a.Avatar(ctx, args[0]))

		case "delete-account":
			report(a.DeleteAccount(ctx))

		case "cep":
			if len(args) != 1 {
				printlnFn("Uso: cep <cep>")
				continue
			}
			report(a.ZipCode(ctx, args[0]))

		case "admin":
			report(a.Admin(ctx))

		case "forget":
			report(a.Forget(ctx))

		case "exit", "quit":
			printlnFn("Até logo!")
			return

		default:
			printlnFn("Comando desconhecido:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Erro:", errorMessage(err))
	}
}
