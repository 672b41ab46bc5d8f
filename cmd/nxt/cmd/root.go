package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theakshaypant/nxt/internal/config"
	"github.com/theakshaypant/nxt/internal/errfmt"
)

type rootFlags struct {
	ConfigPath string
	Verbose    bool
}

// timeNow is replaced in tests.
var timeNow = time.Now

func Execute(args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return execute(root)
}

func execute(root *cobra.Command) error {
	err := root.Execute()
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error: "+errfmt.Format(err))
	return err
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "nxt",
		Short: "Print the next event on your calendar",
		Long: `nxt prints your next calendar event as a single line, for status bars
and shell prompts. Events are cached locally so most invocations never touch
the network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Example: strings.TrimSpace(`
  # One-time setup
  nxt auth --client-id <id> --client-secret <secret>

  # Status line for the next event
  nxt event

  # Calendar IDs for selected_calendars
  nxt cal
`),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logLevel := slog.LevelWarn
			if flags.Verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel,
			})))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config-path", "c", "", "config file (default is <user config dir>/nxt/config.json)")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newAuthCmd(flags))
	root.AddCommand(newNextCmd(flags))
	root.AddCommand(newCalendarsCmd(flags))

	return root
}

func (f *rootFlags) configPath() (string, error) {
	if f.ConfigPath != "" {
		return f.ConfigPath, nil
	}
	return config.DefaultPath()
}

// loadConfig returns the config at the resolved path, or the defaults when it
// cannot be read.
func (f *rootFlags) loadConfig() (*config.Config, string, error) {
	path, err := f.configPath()
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(path)
	if err != nil {
		slog.Debug("using default config", "path", path, "err", err)
		return config.Default(), path, nil
	}
	slog.Debug("loaded config", "path", path, "provider", cfg.Provider)
	return cfg, path, nil
}
