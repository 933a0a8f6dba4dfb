// Package fetch downloads release artifacts over HTTP.
//
// The fetcher makes exactly one attempt per call: retry policy belongs to
// the caller re-invoking the whole bootstrapper, not to internal stages,
// because a partial internal retry risks masking a checksum mismatch behind
// a stale partial download. Transport failures and non-2xx statuses are
// reported as distinct error types so callers can suggest different
// remediation for each.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "hooklistener-install/1.0"

	// maxRedirects caps redirect following; release hosts redirect to CDNs.
	maxRedirects = 10
	// maxFetchBytes caps a single download (500 MB).
	maxFetchBytes = 500 << 20
)

// UnreachableError reports a transport-level failure: DNS, connection
// refused, timeout. The URL never answered.
type UnreachableError struct {
	URL   string
	Cause error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("unreachable: %s: %v", e.URL, e.Cause)
}

func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// StatusError reports a non-redirect, non-success HTTP response. The host
// answered; the resource is missing or refused.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client performs single-attempt HTTP downloads with redirect following.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a fetch client. Redirects are followed transparently up
// to maxRedirects hops.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// Fetch downloads the resource at url and returns its bytes. It has no
// side effects on program state: persisting bytes anywhere is the caller's
// responsibility.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UnreachableError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, &UnreachableError{URL: url, Cause: fmt.Errorf("read response body: %w", err)}
	}

	return body, nil
}
