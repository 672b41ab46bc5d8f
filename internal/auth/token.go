package auth

import (
	"sync"

	"golang.org/x/oauth2"
)

// NotifyRefresh wraps src so that onRefresh is called whenever it hands out
// an access token different from the last one seen. initial is the token
// already on record.
func NotifyRefresh(src oauth2.TokenSource, initial *oauth2.Token, onRefresh func(*oauth2.Token)) oauth2.TokenSource {
	last := ""
	if initial != nil {
		last = initial.AccessToken
	}
	return &notifyingSource{src: src, last: last, onRefresh: onRefresh}
}

type notifyingSource struct {
	mu        sync.Mutex
	src       oauth2.TokenSource
	last      string
	onRefresh func(*oauth2.Token)
}

func (n *notifyingSource) Token() (*oauth2.Token, error) {
	tok, err := n.src.Token()
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if tok.AccessToken != n.last {
		n.last = tok.AccessToken
		if n.onRefresh != nil {
			n.onRefresh(tok)
		}
	}
	return tok, nil
}
