package cmd

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/theakshaypant/nxt/internal/adapter/google"
	"github.com/theakshaypant/nxt/internal/adapter/outlook"
	"github.com/theakshaypant/nxt/internal/auth"
	"github.com/theakshaypant/nxt/internal/config"
	"github.com/theakshaypant/nxt/internal/core"
)

// Replaced in tests.
var (
	oauthConfigFor = providerOAuthConfig
	newSource      = providerSource
)

func providerOAuthConfig(cfg *config.Config) *oauth2.Config {
	creds := cfg.Creds
	switch cfg.Provider {
	case config.ProviderOutlook:
		return outlook.OAuthConfig(creds.ClientID, creds.ClientSecret, creds.TenantID, auth.RedirectURL)
	default:
		return google.OAuthConfig(creds.ClientID, creds.ClientSecret, auth.RedirectURL)
	}
}

func providerSource(ctx context.Context, cfg *config.Config, ts oauth2.TokenSource) (core.Source, error) {
	switch cfg.Provider {
	case config.ProviderOutlook:
		a, err := outlook.NewOutlookAdapter(ts, int32(cfg.EventsPerCalendar))
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		svc, err := google.NewService(ctx, ts)
		if err != nil {
			return nil, err
		}
		return google.NewGoogleAdapter(svc, cfg.EventsPerCalendar), nil
	}
}

// openSource authenticates with the stored tokens. Refreshed tokens are
// written back to the config file at path; other settings in the file are
// left alone.
func openSource(ctx context.Context, cfg *config.Config, path string) (core.Source, error) {
	if !cfg.Creds.Authenticated() {
		return nil, config.ErrNotAuthenticated
	}

	initial := cfg.Creds.OAuthToken()
	ts := auth.NotifyRefresh(oauthConfigFor(cfg).TokenSource(ctx, initial), initial, func(tok *oauth2.Token) {
		cfg.Creds.SetToken(tok)
		if err := config.SaveCreds(path, cfg.Provider, cfg.Creds); err != nil {
			slog.Warn("failed to store refreshed token", "path", path, "err", err)
			return
		}
		slog.Debug("stored refreshed token", "path", path, "expiry", tok.Expiry)
	})

	return newSource(ctx, cfg, ts)
}

// lazySource defers opening the provider until the first request, so cache
// hits work offline and without credentials.
type lazySource struct {
	open func() (core.Source, error)

	once sync.Once
	src  core.Source
	err  error
}

func (l *lazySource) get() (core.Source, error) {
	l.once.Do(func() {
		l.src, l.err = l.open()
	})
	return l.src, l.err
}

func (l *lazySource) ListCalendars(ctx context.Context) ([]core.Calendar, error) {
	src, err := l.get()
	if err != nil {
		return nil, err
	}
	return src.ListCalendars(ctx)
}

func (l *lazySource) ListEvents(ctx context.Context, calendarID string, from time.Time) ([]core.Event, error) {
	src, err := l.get()
	if err != nil {
		return nil, err
	}
	return src.ListEvents(ctx, calendarID, from)
}
