package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/trainpi/internal/client/services"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/dmitrijs2005/trainpi/internal/timex"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

// ListExceptions prints the exceptions matching status (All, Exception or
// Cleared). The cache is shown when the server cannot be reached.
func (a *App) ListExceptions(ctx context.Context, status string) error {
	f, err := models.ParseStatusFilter(status)
	if err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	items, err := a.store.ListFiltered(ctx, f)
	if err != nil {
		return err
	}
	a.renderExceptions(items)
	return nil
}

func (a *App) renderExceptions(items []models.Exception) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No exceptions found")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(a.styles.border).
		Headers("ID", "TYPE", "STATUS", "CREATED", "CLEARED", "DURATION", "REMARKS")
	for _, e := range items {
		cleared, duration := "-", "-"
		if e.ClearedAt != nil {
			cleared = e.ClearedAt.Local().Format(timeLayout)
		}
		if e.Duration != nil {
			duration = timex.FormatSeconds(*e.Duration)
		}
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.Type,
			a.styles.status(e.Status),
			e.CreatedAt.Local().Format(timeLayout),
			cleared,
			duration,
			e.Remarks,
		)
	}
	fmt.Fprintln(a.out, t.Render())
}

// CreateException opens a new exception. It is kept locally when the
// server does not take it.
func (a *App) CreateException(ctx context.Context, typ, remarks string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	e, outcome, err := a.store.Create(ctx, typ, remarks)
	if err != nil {
		return err
	}
	if outcome == services.Synced {
		fmt.Fprintf(a.out, "%s (id %d)\n", a.styles.ok.Render("Exception created"), e.ID)
		return nil
	}
	fmt.Fprintf(a.out, "%s (id %d), not synced with the server\n", a.styles.warn.Render("Exception saved locally"), e.ID)
	return nil
}

// ClearException clears id. The record is cleared locally even when the
// server call fails; only the wording of the notice differs.
func (a *App) ClearException(ctx context.Context, id int64) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	e, outcome, err := a.store.Clear(ctx, id)
	if err != nil {
		return err
	}

	msg := a.styles.warn.Render("Exception cleared")
	if outcome == services.Synced {
		msg = a.styles.ok.Render("Exception cleared successfully")
	}
	// Recomputed from the timestamps so the legacy checks of FormatSeconds
	// never apply to a fresh clear.
	elapsed := e.ClearedAt.Sub(e.CreatedAt)
	fmt.Fprintf(a.out, "%s (id %d, open for %s)\n", msg, e.ID, timex.FormatDuration(elapsed))
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid exception id %q", s)
	}
	return id, nil
}

func newExceptionsCmd(r runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exceptions",
		Aliases: []string{"exc"},
		Short:   "List, create and clear exceptions",
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List exceptions",
		Args:  cobra.NoArgs,
		RunE: r(func(ctx context.Context, a *App, _ []string) error {
			return a.ListExceptions(ctx, status)
		}),
	}
	listCmd.Flags().StringVar(&status, "status", "all", "filter: all, exception or cleared")

	var typ, remarks string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new exception",
		Args:  cobra.NoArgs,
		RunE: r(func(ctx context.Context, a *App, _ []string) error {
			return a.CreateException(ctx, typ, remarks)
		}),
	}
	createCmd.Flags().StringVar(&typ, "type", "", "category code, e.g. \"ATT C\"")
	createCmd.Flags().StringVar(&remarks, "remarks", "", "free-text remarks")
	_ = createCmd.MarkFlagRequired("type")

	clearCmd := &cobra.Command{
		Use:   "clear <id>",
		Short: "Clear an open exception",
		Long: "Clear an open exception.\n\n" +
			"Exceptions saved while the server was unreachable have negative ids;\n" +
			"pass them after \"--\" so they are not read as flags.",
		Example: "  trainpi exceptions clear 12\n  trainpi exceptions clear -- -1",
		Args:    cobra.ExactArgs(1),
		RunE: r(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.ClearException(ctx, id)
		}),
	}

	cmd.AddCommand(listCmd, createCmd, clearCmd)
	return cmd
}
