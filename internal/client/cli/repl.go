package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Signin(ctx context.Context) error
	Refresh(ctx context.Context) error
	Signout(ctx context.Context) error
	SignoutAll(ctx context.Context) error
	Profile(ctx context.Context) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
//
//	Signed out:  help, signup, signin, refresh, exit
//	Signed in:   help, profile, refresh, signout, signout-all, exit
//
// Handler errors are ignored here; handlers report their own failures.
// Commands outside the current state's list are still dispatched so the
// server has the final say.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gophauth %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, refresh, signout, signout-all, exit")
			} else {
				printlnFn("Available commands: signup, signin, refresh, exit")
			}

		case "signup", "register":
			_ = a.Signup(ctx)

		case "signin", "login":
			_ = a.Signin(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "profile", "whoami":
			_ = a.Profile(ctx)

		case "signout", "logout":
			_ = a.Signout(ctx)

		case "signout-all":
			_ = a.SignoutAll(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
