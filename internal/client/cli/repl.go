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
	Start(ctx context.Context, targets []string) error
	SelectSlot(args []string) error
	SetFix(args []string) error
	Capture(ctx context.Context, args []string) error
	Confirm(ctx context.Context, args []string) error
	Clear(args []string) error
	Status(ctx context.Context) error
	Finish(ctx context.Context) error
	Latest(ctx context.Context) error
	Journal(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the walk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - start <t1> [t2 ...]   — begin a walk with up to five targets
//	  - select <slot>         — pick the active capture slot
//	  - loc <lat> <lng>       — set the manual location fix
//	  - capture [slot] <file> — store a photo into a slot
//	  - confirm [slot]        — validate the slot's photo
//	  - clear <slot>          — reset a slot
//	  - status                — show the slot board
//	  - finish                — upload the walk
//	  - latest                — show the most recent saved walk
//	  - journal               — show this week's journal
//	  - logout | exit | quit
//
// Any errors returned by command handlers are printed here; handlers only
// shape their own success output. This keeps the REPL loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("antivity> %s > ", statusFn()))
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

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: start, select, loc, capture, confirm, clear, status, finish, latest, journal, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "start":
			err = a.Start(ctx, args)

		case "select":
			err = a.SelectSlot(args)

		case "loc":
			err = a.SetFix(args)

		case "capture":
			err = a.Capture(ctx, args)

		case "confirm":
			err = a.Confirm(ctx, args)

		case "clear":
			err = a.Clear(args)

		case "s", "status":
			err = a.Status(ctx)

		case "finish":
			err = a.Finish(ctx)

		case "latest":
			err = a.Latest(ctx)

		case "journal":
			err = a.Journal(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
