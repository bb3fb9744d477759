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
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Edit(ctx context.Context, arg string) error
	Cancel(ctx context.Context) error
	Delete(ctx context.Context, arg string) error
	Clear(ctx context.Context) error
	Export(ctx context.Context) error
	Users(ctx context.Context) error
	View(ctx context.Context, arg string) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. Unknown commands are reported back to the
// user. The loop exits on scanner EOF or when the user types "exit" or
// "quit". Handlers log their own errors; the loop stays resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wl %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn("Available commands: add, (l)ist, edit <n>, cancel, delete <n>, clear, export, users, view <id>, logout, exit")
			case a.isLoggedIn():
				printlnFn("Available commands: add, (l)ist, edit <n>, cancel, delete <n>, clear, export, logout, exit")
			default:
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "edit":
			_ = a.Edit(ctx, arg)

		case "cancel":
			_ = a.Cancel(ctx)

		case "delete":
			_ = a.Delete(ctx, arg)

		case "clear":
			_ = a.Clear(ctx)

		case "export":
			_ = a.Export(ctx)

		case "users":
			_ = a.Users(ctx)

		case "view":
			_ = a.View(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
