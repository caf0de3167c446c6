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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	ListIdeas(ctx context.Context, args []string) error
	AddIdea(ctx context.Context) error
	EditIdea(ctx context.Context, args []string) error
	DeleteIdea(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from in and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account
//	  - login          authenticate
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - me             show the current profile
//	  - (l)ist [page]  list ideas, best first
//	  - add            add an idea
//	  - edit <id>      replace an idea
//	  - delete <id>    delete an idea
//	  - logout         log out
//	  - exit | quit    leave the program
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ideapool%s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, (l)ist [page], add, edit <id>, delete <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "me":
			cmdErr = a.Me(ctx)

		case "l", "list":
			cmdErr = a.ListIdeas(ctx, args)

		case "add":
			cmdErr = a.AddIdea(ctx)

		case "edit":
			cmdErr = a.EditIdea(ctx, args)

		case "delete":
			cmdErr = a.DeleteIdea(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
