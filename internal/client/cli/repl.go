package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/trainpi/internal/timex"
	"github.com/spf13/cobra"
)

// execIface is the command surface the shell needs. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	statusLine() string
	Register(ctx context.Context, email, fullName string) error
	Login(ctx context.Context, email string) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	ListExceptions(ctx context.Context, status string) error
	CreateException(ctx context.Context, typ, remarks string) error
	ClearException(ctx context.Context, id int64) error
	ShowProfile(ctx context.Context) error
}

// runREPL reads commands line by line from reader until EOF, "exit" or
// "quit".
//
//	Not logged in:
//	  - help                       show available commands
//	  - register                   create an account
//	  - login [email]              authenticate
//	  - status                     session and server reachability
//	  - format <value>             format a duration in seconds
//	  - exit | quit                leave the shell
//
//	Logged in, additionally:
//	  - (l)ist [status]            list exceptions
//	  - create [type [remarks]]    open an exception
//	  - clear <id>                 clear an exception
//	  - profile                    show the profile document
//	  - logout                     log out
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "trainpi %s> ", a.statusLine())
		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				fmt.Fprintln(out)
				return
			}
			continue
		}

		cmd, args := parts[0], parts[1:]
		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: (l)ist, create, clear, profile, status, format, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, status, format, exit")
			}

		case "register":
			err = a.Register(ctx, "", "")

		case "login":
			err = a.Login(ctx, strings.Join(args, ""))

		case "logout":
			err = a.Logout(ctx)

		case "status":
			err = a.Status(ctx)

		case "l", "list":
			err = a.ListExceptions(ctx, strings.Join(args, ""))

		case "create":
			typ, remarks := "", ""
			if len(args) > 0 {
				typ, remarks = args[0], strings.Join(args[1:], " ")
			} else {
				if typ, err = getSimpleText(reader, "Enter type", out); err != nil {
					break
				}
				if remarks, err = getSimpleText(reader, "Enter remarks (optional)", out); err != nil {
					break
				}
			}
			err = a.CreateException(ctx, typ, remarks)

		case "clear":
			if len(args) != 1 {
				fmt.Fprintln(out, "Usage: clear <id>")
				continue
			}
			var id int64
			if id, err = parseID(args[0]); err == nil {
				err = a.ClearException(ctx, id)
			}

		case "profile":
			err = a.ShowProfile(ctx)

		case "format":
			if len(args) != 1 {
				fmt.Fprintln(out, "Usage: format <value>")
				continue
			}
			fmt.Fprintln(out, timex.FormatSeconds(args[0]))

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		if readErr != nil {
			return
		}
	}
}

func newShellCmd(r runner) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: r(func(ctx context.Context, a *App, _ []string) error {
			fmt.Fprintln(a.out, "TrainPi shell (type 'help' for commands)")
			runREPL(ctx, a, a.reader, a.out)
			return nil
		}),
	}
}
