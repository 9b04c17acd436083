package commands

import (
	"GlobalpingCLI/internal/shared/constants"
	"GlobalpingCLI/pkg/validator"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (r *Root) newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Display recently submitted measurements",
		Long: `Display measurements recorded in the history database, newest first.
History is enabled by setting history.dsn to a PostgreSQL connection string.

Examples:
  # Display the last 5 measurements
  history --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := validator.ValidateLimit(limit); err != nil {
				return err
			}
			return r.withApp(cmd, func(app App) error {
				return r.runHistory(cmd, app, limit)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "L", constants.DefaultHistoryMax, "number of measurements to display")
	return cmd
}

func (r *Root) runHistory(cmd *cobra.Command, app App, limit int) error {
	entries, err := app.History().List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if r.output.JSON {
		body, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		_, err = fmt.Fprintln(r.opts.Out, string(body))
		return err
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(r.opts.Out, "no measurements recorded yet")
		return err
	}

	w := tabwriter.NewWriter(r.opts.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tID\tTYPE\tTARGET\tLOCATION\tPROBES")
	for _, entry := range entries {
		location := entry.Location
		if location == "" {
			location = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			entry.CreatedAt.Local().Format(time.DateTime),
			entry.MeasurementID,
			entry.Type,
			entry.Target,
			location,
			entry.ProbesCount,
		)
	}
	return w.Flush()
}
