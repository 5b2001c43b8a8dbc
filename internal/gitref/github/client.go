package github

import (
	"context"
	"net/http"

	"github.com/sethgrid/pester"
	"golang.org/x/oauth2"

	"review-consensus-guard/config"
)

// retryTransport sends reads through a pester client so transient failures
// and rate limiting are retried with exponential backoff. Ref creation and
// deletion are not idempotent and go out once through the plain client.
type retryTransport struct {
	reads  *pester.Client
	writes *http.Client
}

func (t retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch req.Method {
	case http.MethodGet, http.MethodHead:
		return t.reads.Do(req)
	default:
		return t.writes.Do(req)
	}
}

func newHTTPClient(cfg config.GitHubConfig) *http.Client {
	base := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		base = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
		base.Timeout = cfg.Timeout
	}

	reads := pester.NewExtendedClient(base)
	reads.MaxRetries = cfg.MaxRetries
	reads.Backoff = pester.ExponentialBackoff
	reads.RetryOnHTTP429 = true

	return &http.Client{Transport: retryTransport{reads: reads, writes: base}}
}
