package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// RepoOwner is the GitHub owner of the hooklistener CLI repository.
	RepoOwner = "hooklistener"
	// RepoName is the GitHub repository holding published releases.
	RepoName = "hooklistener-cli"

	// DefaultAPIBase is the release index endpoint.
	DefaultAPIBase = "https://api.github.com"
	// DefaultIndexTimeout bounds the single release index round trip.
	DefaultIndexTimeout = 30 * time.Second

	// maxIndexResponseBytes caps the release index response size (10 MB).
	maxIndexResponseBytes = 10 << 20
)

// IndexUnreachableError reports a transport-level failure reaching the
// release index (DNS, connection, timeout). Distinct from ResolutionError
// so callers can suggest "check your network" rather than "check the
// release exists".
type IndexUnreachableError struct {
	URL   string
	Cause error
}

func (e *IndexUnreachableError) Error() string {
	return fmt.Sprintf("release index unreachable (%s): %v", e.URL, e.Cause)
}

func (e *IndexUnreachableError) Unwrap() error {
	return e.Cause
}

// ResolutionError reports a release index that answered but yielded no
// usable version tag: a non-200 status or a malformed response body.
// Never retried internally.
type ResolutionError struct {
	URL     string
	Status  int
	Message string
}

func (e *ResolutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("resolve latest release: %s (status %d from %s)", e.Message, e.Status, e.URL)
	}
	return fmt.Sprintf("resolve latest release: %s (%s)", e.Message, e.URL)
}

// latestRelease is the JSON wire format of the release index response.
// Only the tag is consumed.
type latestRelease struct {
	TagName string `json:"tag_name"`
}

// Client queries the release index for the latest published version tag.
type Client struct {
	httpClient *http.Client
	apiBase    string
	userAgent  string
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, useful for tests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIBase overrides the release index base URL, primarily for test servers.
func WithAPIBase(base string) ClientOption {
	return func(cl *Client) {
		cl.apiBase = base
	}
}

// WithUserAgent sets the User-Agent header sent with index requests.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a release index client with sensible defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultIndexTimeout},
		apiBase:    DefaultAPIBase,
		userAgent:  "hooklistener-install",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the latest published release tag from the index.
// This is the installer's single version-resolution round trip.
func (c *Client) Latest(ctx context.Context) (Version, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.apiBase, RepoOwner, RepoName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &IndexUnreachableError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ResolutionError{URL: url, Status: resp.StatusCode, Message: "unexpected status"}
	}

	var release latestRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxIndexResponseBytes)).Decode(&release); err != nil {
		return "", &ResolutionError{URL: url, Message: fmt.Sprintf("decode response: %v", err)}
	}

	if release.TagName == "" {
		return "", &ResolutionError{URL: url, Message: "response contains no release tag"}
	}

	return Version(release.TagName), nil
}
