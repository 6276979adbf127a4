package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Navigate(ctx context.Context, path string) error
	Exec(ctx context.Context, name string, args []string) bool
	pageHelp() string
	afterCommand(ctx context.Context)
}

// runREPL reads commands from reader until EOF or "exit".
//
// Global commands are handled here; anything else is offered to the current
// page through Exec. After every command afterCommand gets a chance to move
// the operator off a page the session no longer allows.
//
//	Not logged in:
//	  - help           show available commands
//	  - login          authenticate
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - go PATH        open a page, e.g. go /events
//	  - show           redraw the current page
//	  - refresh        reload the current page
//	  - whoami         print the signed-in profile
//	  - passwd         change your password
//	  - logout         sign out
//	  - exit | quit    leave the program
//
// Errors returned by command handlers are ignored here; handlers print and
// log their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sesdash %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn("Available commands: go PATH, show, refresh, whoami, passwd, logout, exit")
				printlnFn("Pages: /dashboard, /events, /analytics, /admin/users, /admin/suppression, /admin/settings")
				if h := a.pageHelp(); h != "" {
					printlnFn(h)
				}
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "go":
			if len(args) != 1 {
				printlnFn("Usage: go PATH")
				break
			}
			_ = a.Navigate(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.Exec(ctx, cmd, args) {
				printlnFn("Unknown command:", cmd)
			}
		}

		a.afterCommand(ctx)
	}
}
