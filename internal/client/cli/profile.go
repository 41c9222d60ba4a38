package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ShowProfile prints the signed-in user's profile document.
func (a *App) ShowProfile(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	data, err := a.profiles.Show(ctx, a.session)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("stored profile is corrupt: %w", err)
	}
	fmt.Fprintln(a.out, buf.String())
	return nil
}

// SetProfile replaces the profile document. An empty doc is read from the
// input until an empty line.
func (a *App) SetProfile(ctx context.Context, doc string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if strings.TrimSpace(doc) == "" {
		var err error
		if doc, err = GetMultiline(a.reader, "Enter profile JSON", a.out); err != nil {
			return err
		}
	}

	if err := a.profiles.Set(ctx, a.session, json.RawMessage(doc)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile saved")
	return nil
}

func newProfileCmd(r runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or replace the local profile document",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the profile",
			Args:  cobra.NoArgs,
			RunE: r(func(ctx context.Context, a *App, _ []string) error {
				return a.ShowProfile(ctx)
			}),
		},
		&cobra.Command{
			Use:   "set [json]",
			Short: "Replace the profile; reads stdin when no argument is given",
			Args:  cobra.MaximumNArgs(1),
			RunE: r(func(ctx context.Context, a *App, args []string) error {
				doc := ""
				if len(args) == 1 {
					doc = args[0]
				}
				return a.SetProfile(ctx, doc)
			}),
		},
	)
	return cmd
}
