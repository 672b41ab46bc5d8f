package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/nxt/internal/core"
	"github.com/theakshaypant/nxt/internal/ui"
)

func newCalendarsCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list-calendars",
		Aliases: []string{"cal"},
		Short:   "List the calendars you can read",
		Long: `List every calendar you can read, with its ID. selected_calendars is not
applied, so IDs missing from a whitelist are shown too. Use the IDs in the
whitelist or blacklist of selected_calendars.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			cfg, path, err := flags.loadConfig()
			if err != nil {
				return err
			}

			src, err := openSource(cmd.Context(), cfg, path)
			if err != nil {
				return err
			}
			calendars, err := src.ListCalendars(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get calendar list: %w", err)
			}
			if calendars == nil {
				calendars = []core.Calendar{}
			}

			out := cmd.OutOrStdout()
			if ok, err := writeData(out, format, calendars); ok {
				return err
			}

			if _, err := fmt.Fprintln(out, ui.NewStyles(out).CalendarTable(calendars)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Total: %d calendars\n", len(calendars))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table|json|yaml")
	return cmd
}
