// Package source fetches item lists over HTTP.
package source

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/dedene/typeahead-cli/internal/items"
)

// ClientOptions configures a new Client.
type ClientOptions struct {
	// Token is sent as a bearer token when set.
	Token     string
	Verbose   bool
	UserAgent string
	Timeout   time.Duration
}

// Client downloads item lists with retries on transient failures.
type Client struct {
	http      *http.Client
	token     string
	userAgent string
}

// NewClient builds a Client with retry transport and optional verbose logging.
func NewClient(opts ClientOptions) *Client {
	ua := opts.UserAgent
	if ua == "" {
		ua = "typeahead-cli/dev"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var transport http.RoundTripper = &retryTransport{
		base:       http.DefaultTransport,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}

	if opts.Verbose {
		transport = &loggingTransport{base: transport}
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		token:     opts.Token,
		userAgent: ua,
	}
}

// Fetch downloads the item list at rawURL. An empty format is detected from
// the response Content-Type, then the URL path extension.
func (c *Client) Fetch(ctx context.Context, rawURL string, format items.Format) ([]items.Record, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml, application/toml, text/plain;q=0.5")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	if format == "" {
		format = formatOf(resp, u)
	}

	records, err := items.Decode(resp.Body, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", u.Redacted(), err)
	}

	return records, nil
}

// formatOf picks the item format for a response.
func formatOf(resp *http.Response, u *url.URL) items.Format {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err == nil {
		switch mediaType {
		case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
			return items.FormatYAML
		case "application/toml", "text/toml":
			return items.FormatTOML
		case "text/plain":
			return items.FormatText
		case "application/json", "application/json5":
			return items.FormatJSON
		}
	}

	return items.FormatFromPath(u.Path)
}

type clientCtxKey struct{}

// WithClient stores a Client in the context.
func WithClient(ctx context.Context, cl *Client) context.Context {
	return context.WithValue(ctx, clientCtxKey{}, cl)
}

// ClientFromContext retrieves the Client from the context.
func ClientFromContext(ctx context.Context) *Client {
	if v := ctx.Value(clientCtxKey{}); v != nil {
		if cl, ok := v.(*Client); ok {
			return cl
		}
	}

	return nil
}
