package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/nxt/internal/auth"
	"github.com/theakshaypant/nxt/internal/config"
)

// authState is sent with the consent URL; empty generates a random one.
var authState string

type authOptions struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	NoSave       bool
}

func newAuthCmd(flags *rootFlags) *cobra.Command {
	opts := &authOptions{}

	cmd := &cobra.Command{
		Use:     "authenticate",
		Aliases: []string{"auth"},
		Short:   "Authenticate with your calendar provider",
		Long: `Authenticate with your calendar provider using OAuth.

  1. Open the printed URL and approve read access to your calendars
  2. Your browser is redirected to http://localhost:8080 (nothing needs to be
     listening there); copy the full URL from the address bar
  3. Paste it back here

Client credentials come from the flags or from creds in the config file.
Tokens are stored in the config file unless --nosave is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := flags.loadConfig()
			if err != nil {
				return err
			}

			if err := opts.apply(cfg); err != nil {
				return err
			}

			flow := &auth.Flow{
				Config: oauthConfigFor(cfg),
				In:     cmd.InOrStdin(),
				Out:    cmd.OutOrStdout(),
				State:  authState,
			}
			tok, err := flow.Run(cmd.Context())
			if err != nil {
				return err
			}
			cfg.Creds.SetToken(tok)

			out := cmd.OutOrStdout()
			if opts.NoSave {
				_, err = fmt.Fprintln(out, "\nAuthentication successful. Tokens were not saved (--nosave).")
				return err
			}
			if err := config.SaveCreds(path, cfg.Provider, cfg.Creds); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\nAuthentication successful.\nCredentials saved to %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.ClientID, "client-id", "", "OAuth client ID (default from config)")
	cmd.Flags().StringVar(&opts.ClientSecret, "client-secret", "", "OAuth client secret (default from config)")
	cmd.Flags().StringVar(&opts.TenantID, "tenant-id", "", "Azure AD tenant for Outlook (default \"common\")")
	cmd.Flags().BoolVarP(&opts.NoSave, "nosave", "S", false, "Do not write the obtained tokens to the config file")
	return cmd
}

// apply overrides the stored client credentials with the flags and checks
// that the provider has what it needs.
func (o *authOptions) apply(cfg *config.Config) error {
	if o.ClientID != "" {
		cfg.Creds.ClientID = o.ClientID
	}
	if o.ClientSecret != "" {
		cfg.Creds.ClientSecret = o.ClientSecret
	}
	if o.TenantID != "" {
		cfg.Creds.TenantID = o.TenantID
	}

	if cfg.Creds.ClientID == "" {
		return errors.New("client ID missing: pass --client-id or set creds.client_id in the config file")
	}
	if cfg.Provider == config.ProviderGoogle && cfg.Creds.ClientSecret == "" {
		return errors.New("client secret missing: pass --client-secret or set creds.client_secret in the config file")
	}
	return nil
}
