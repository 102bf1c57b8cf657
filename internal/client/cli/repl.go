package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	GoogleLogin(ctx context.Context, args []string) error
	Register(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Resend(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	ForgetDevice(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Device(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit"/"quit", or when ctx is done.
//
//	Always:
//	  - help                - show available commands
//	  - open <path>         - go to a storefront page
//	  - whoami              - session state, role and token expiry
//	  - device              - this installation's identity and trust
//	  - verify [token]      - confirm an email address
//	  - reset [token]       - set a new password
//	  - exit | quit         - leave the program
//
//	Signed out:
//	  - login, google-login, register, resend, forgot
//
//	Signed in:
//	  - logout, forget-device
//
// Command errors are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "dealership %s > ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
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
				fmt.Fprintln(w, "Available commands: open, whoami, device, verify, reset, logout, forget-device, exit")
			} else {
				fmt.Fprintln(w, "Available commands: login, google-login, register, verify, resend, forgot, reset, open, whoami, device, exit")
			}

		case "login":
			cmdErr = a.Login(ctx, args)

		case "google-login":
			cmdErr = a.GoogleLogin(ctx, args)

		case "register":
			cmdErr = a.Register(ctx, args)

		case "verify":
			cmdErr = a.Verify(ctx, args)

		case "resend":
			cmdErr = a.Resend(ctx, args)

		case "forgot":
			cmdErr = a.Forgot(ctx, args)

		case "reset":
			cmdErr = a.Reset(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx, args)

		case "forget-device":
			cmdErr = a.ForgetDevice(ctx, args)

		case "whoami":
			cmdErr = a.Whoami(ctx, args)

		case "device":
			cmdErr = a.Device(ctx, args)

		case "open", "go":
			cmdErr = a.Open(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}
