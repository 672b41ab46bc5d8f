package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/nxt/internal/agenda"
	"github.com/theakshaypant/nxt/internal/cache"
	"github.com/theakshaypant/nxt/internal/config"
	"github.com/theakshaypant/nxt/internal/core"
)

func newNextCmd(flags *rootFlags) *cobra.Command {
	var noCache bool
	var format string

	cmd := &cobra.Command{
		Use:     "get-next-event",
		Aliases: []string{"event"},
		Short:   "Print the next upcoming or running event",
		Long: `Print the next event as "Title [Location]: 03:04 PM".

The earliest event that has not started yet is shown, unless it starts after
max_time_until_event_seconds; then the event currently in progress is shown
instead. An empty line means there is nothing to show. All-day events are
never reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}

			cfg, path, err := flags.loadConfig()
			if err != nil {
				return err
			}

			a, err := newAgenda(cmd, cfg, path)
			if err != nil {
				return err
			}
			a.NoCache = a.NoCache || noCache

			now := timeNow()
			event, err := a.NextEvent(cmd.Context(), now, cfg.Horizon())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ok, err := writeData(out, format, event); ok {
				return err
			}

			if event == nil {
				_, err = fmt.Fprintln(out)
				return err
			}
			_, err = fmt.Fprintln(out, event.StatusLine(now.Location()))
			return err
		},
	}

	cmd.Flags().BoolVarP(&noCache, "nocache", "C", false, "Ignore the event cache and fetch from the provider")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	return cmd
}

// newAgenda wires the provider and cache described by cfg.
func newAgenda(cmd *cobra.Command, cfg *config.Config, path string) (*agenda.Agenda, error) {
	cachePath := cfg.CachePath
	if cachePath == "" {
		var err error
		if cachePath, err = cache.DefaultPath(); err != nil {
			return nil, err
		}
	}

	ctx := cmd.Context()
	return &agenda.Agenda{
		Source: &lazySource{open: func() (core.Source, error) {
			return openSource(ctx, cfg, path)
		}},
		Cache:     &cache.Store{Path: cachePath},
		TTL:       cfg.CacheTTL(),
		NoCache:   cfg.NoCache,
		Selection: cfg.SelectedCalendars,
		Logger:    slog.Default(),
	}, nil
}
