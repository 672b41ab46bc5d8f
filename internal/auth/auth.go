// Package auth runs the browserless OAuth flow: print the consent URL, read
// the redirect URL the user pastes back, and exchange its code for tokens.
package auth

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// RedirectURL is registered with the provider; nothing needs to listen on it.
const RedirectURL = "http://localhost:8080"

const DefaultMaxAttempts = 5

var (
	ErrInvalidRedirect = errors.New("invalid redirect URL")
	ErrTooManyAttempts = errors.New("too many invalid redirect URLs")
	ErrMissingTokens   = errors.New("failed to get access token and refresh token, please try again")
)

// AuthError wraps a failed code exchange.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "token exchange failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// Flow reads redirect URLs from In and writes prompts to Out.
type Flow struct {
	Config *oauth2.Config
	In     io.Reader
	Out    io.Writer
	// State is sent with the consent URL and must come back unchanged.
	// A random value is generated when empty.
	State       string
	MaxAttempts int
}

// Run prompts until a usable redirect URL is pasted, then exchanges the code.
// Only the URL parsing step is retried; a failed exchange ends the flow.
func (f *Flow) Run(ctx context.Context) (*oauth2.Token, error) {
	state := f.State
	if state == "" {
		var err error
		if state, err = randomState(); err != nil {
			return nil, err
		}
	}
	attempts := f.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	consentURL := f.Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(f.Out, "Please visit the following URL to grant access to your calendar:\n  %s\n\n", consentURL)
	fmt.Fprintln(f.Out, "After approving, paste the URL your browser was redirected to:")

	scanner := bufio.NewScanner(f.In)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)

	var code string
	for attempt := 1; ; attempt++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read redirect URL: %w", err)
			}
			return nil, fmt.Errorf("read redirect URL: %w", io.ErrUnexpectedEOF)
		}

		c, s, err := ParseRedirectURL(scanner.Text())
		if err == nil && s != state {
			err = fmt.Errorf("%w: state mismatch", ErrInvalidRedirect)
		}
		if err == nil {
			code = c
			break
		}

		fmt.Fprintf(f.Out, "Error: %v\n", err)
		if attempt >= attempts {
			return nil, ErrTooManyAttempts
		}
		fmt.Fprintln(f.Out, "Please enter a valid URL:")
	}

	tok, err := f.Config.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	if tok.AccessToken == "" || tok.RefreshToken == "" {
		return nil, ErrMissingTokens
	}

	return tok, nil
}

// ParseRedirectURL extracts the code and state query parameters.
func ParseRedirectURL(raw string) (code, state string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("%w: empty input", ErrInvalidRedirect)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidRedirect, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("%w: not an absolute URL", ErrInvalidRedirect)
	}

	q := u.Query()
	code, state = q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		return "", "", fmt.Errorf("%w: missing code or state", ErrInvalidRedirect)
	}
	return code, state, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
