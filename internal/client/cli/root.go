package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	SetRole(ctx context.Context, email, role string) error
}

func (a *App) getStatus() string {
	user, loading, _ := a.auth.Snapshot()
	switch {
	case loading:
		return "(...)"
	case user != nil:
		return fmt.Sprintf("(%s %s)", user.Email, user.Role)
	default:
		return ""
	}
}

// Root runs the interactive loop on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Handluz club CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. Command handlers print their own errors; the
// loop stays resilient and only does I/O. It exits on scanner EOF or on
// "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("club %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, refresh, avatar <file>, setrole <email> <role>, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "avatar":
			if len(args) == 0 {
				printlnFn("Usage: avatar <file>")
				continue
			}
			_ = a.Avatar(ctx, args[0])

		case "setrole":
			if len(args) != 2 {
				printlnFn("Usage: setrole <email> <role>")
				continue
			}
			_ = a.SetRole(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
