package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/trainpi/internal/client/config"
	"github.com/spf13/cobra"
)

// Register creates an account. A missing email (and full name) is
// prompted for; the password is always read from the terminal.
func (a *App) Register(ctx context.Context, email, fullName string) error {
	var err error
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
		if fullName == "" {
			if fullName, err = getSimpleText(a.reader, "Enter full name (optional)", a.out); err != nil {
				return err
			}
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	u, err := a.auth.Register(ctx, email, password, fullName)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s, you can log in now\n", a.styles.ok.Render("Registered"), u.Email)
	return nil
}

// Login authenticates against the server and saves the session for later
// invocations.
func (a *App) Login(ctx context.Context, email string) error {
	var err error
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.useSession(s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", s.DisplayName())
	return nil
}

// Logout drops the session and the cached exceptions.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	if err := a.useSession(nil); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints the session and whether the server answers.
func (a *App) Status(ctx context.Context) error {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not logged in")
	} else {
		fmt.Fprintf(a.out, "Logged in as %s since %s\n", a.session.DisplayName(), a.session.StartedAt.Local().Format(timeLayout))
	}

	endpoint := a.cfg.ServerAddr
	if a.cfg.Transport == config.TransportGRPC {
		endpoint = a.cfg.GRPCAddr
	}
	if err := a.auth.Ping(ctx); err != nil {
		a.logger.Debug(ctx, "ping failed", "endpoint", endpoint, "error", err)
		fmt.Fprintf(a.out, "Server %s: %s\n", endpoint, a.styles.warn.Render("unreachable"))
		return nil
	}
	fmt.Fprintf(a.out, "Server %s: %s\n", endpoint, a.styles.ok.Render("online"))
	return nil
}

func newRegisterCmd(r runner) *cobra.Command {
	var email, fullName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: r(func(ctx context.Context, a *App, _ []string) error {
			return a.Register(ctx, email, fullName)
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	return cmd
}

func newLoginCmd(r runner) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: r(func(ctx context.Context, a *App, _ []string) error {
			return a.Login(ctx, email)
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newLogoutCmd(r runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and the cached exceptions",
		Args:  cobra.NoArgs,
		RunE: r(func(ctx context.Context, a *App, _ []string) error {
			return a.Logout(ctx)
		}),
	}
}

func newStatusCmd(r runner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and server reachability",
		Args:  cobra.NoArgs,
		RunE: r(func(ctx context.Context, a *App, _ []string) error {
			return a.Status(ctx)
		}),
	}
}
