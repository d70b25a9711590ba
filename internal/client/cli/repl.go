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
	isAuthenticated() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ImportProfile(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	GoTo(ctx context.Context, screen string) error
}

// runREPL starts a simple read–eval–print loop for the campuslink CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
//	Signed out:
//	  - help           show available commands
//	  - signup         create an account and sign in
//	  - signin         sign in with email and password
//	  - go <screen>    move to sign-in | sign-up | user-info | home
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - profile        fill in the student profile
//	  - profile import paste a JSON profile document
//	  - whoami         show the cached identity and profile
//	  - refresh        re-check the session with the gateway
//	  - signout        sign out
//
// Errors returned by command handlers are reported as a single line; the
// loop keeps running.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("campuslink %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		eof := err != nil

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if eof {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isAuthenticated() {
				printlnFn("Available commands: profile, profile import, whoami, refresh, go <screen>, signout, exit")
			} else {
				printlnFn("Available commands: signup, signin, go <screen>, exit")
			}

		case "signup":
			cmdErr = a.SignUp(ctx)

		case "signin":
			cmdErr = a.SignIn(ctx)

		case "signout":
			cmdErr = a.SignOut(ctx)

		case "profile":
			if len(args) > 0 && args[0] == "import" {
				cmdErr = a.ImportProfile(ctx)
			} else {
				cmdErr = a.EditProfile(ctx)
			}

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <sign-in|sign-up|user-info|home>")
				break
			}
			cmdErr = a.GoTo(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
		if eof {
			return
		}
	}
}
