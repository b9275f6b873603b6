package readwise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Reader API root.
const DefaultBaseURL = "https://readwise.io/api/v3"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; reader2pinboard/1.0)"

// Options configures the client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults for talking to the Reader API.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client fetches documents from the Reader list endpoint. It never mutates
// anything on the Reader side.
type Client struct {
	token   string
	baseURL string
	agent   string
	http    *http.Client
}

// NewClient creates a Reader API client authenticated with token.
func NewClient(token string, opts *Options) (*Client, error) {
	if token == "" {
		return nil, &Error{Message: "API token is required"}
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}

	return &Client{
		token:   token,
		baseURL: baseURL,
		agent:   agent,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// ListDocuments returns every document updated at or after since, in the
// order the API serves them. Cursor pagination is followed until exhausted.
// A zero since fetches the complete document list.
func (c *Client) ListDocuments(ctx context.Context, since time.Time) ([]Document, error) {
	var all []Document
	cursor := ""
	for {
		page, next, err := c.listPage(ctx, since, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

func (c *Client) listPage(ctx context.Context, since time.Time, cursor string) ([]Document, string, error) {
	endpoint := c.baseURL + "/list/"
	params := url.Values{}
	if cursor != "" {
		params.Set("pageCursor", cursor)
	}
	if !since.IsZero() {
		// updatedAfter is a strict lower bound on the server, so back the
		// requested instant off by one second to keep documents updated
		// exactly at the bound in the result set.
		params.Set("updatedAfter", since.UTC().Add(-time.Second).Format(time.RFC3339))
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", &Error{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &Error{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("list request returned HTTP %d", resp.StatusCode),
		}
	}

	var payload struct {
		Results        []Document `json:"results"`
		NextPageCursor string     `json:"nextPageCursor"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", &Error{Message: "failed to decode list response", Cause: err}
	}
	return payload.Results, payload.NextPageCursor, nil
}
