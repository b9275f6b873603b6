package pinboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBaseURL is the production Pinboard API root.
const DefaultBaseURL = "https://api.pinboard.in/v1"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; reader2pinboard/1.0)"

// DefaultThrottle is the minimum spacing between API calls. Pinboard asks
// clients to stay at least three seconds apart.
const DefaultThrottle = 3 * time.Second

const (
	// MaxTitleLen and MaxExtendedLen are the field limits enforced by the API.
	MaxTitleLen    = 255
	MaxExtendedLen = 65536
)

// timeLayout is the UTC timestamp format the posts/add dt parameter expects.
const timeLayout = "2006-01-02T15:04:05Z"

const (
	opQuery = "query"
	opAdd   = "add"
)

// Bookmark is a destination record created via posts/add.
type Bookmark struct {
	URL       string
	Title     string
	Extended  string
	Tags      []string
	CreatedAt time.Time
}

// Options configures the client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Throttle is the minimum interval between consecutive API calls.
	// Negative disables throttling; zero means DefaultThrottle.
	Throttle time.Duration
}

// DefaultOptions returns sensible defaults for talking to the Pinboard API.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Throttle:  DefaultThrottle,
	}
}

// Client checks for and creates Pinboard bookmarks. Calls are expected to be
// sequential; the client enforces the API's minimum spacing between them but
// does not guard lastCall against concurrent use.
type Client struct {
	token    string
	baseURL  string
	agent    string
	throttle time.Duration
	http     *http.Client
	lastCall time.Time
}

// NewClient creates a Pinboard API client authenticated with token.
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
	throttle := opts.Throttle
	if throttle == 0 {
		throttle = DefaultThrottle
	}

	return &Client{
		token:    token,
		baseURL:  baseURL,
		agent:    agent,
		throttle: throttle,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Exists reports whether a bookmark with exactly this URL is already saved.
func (c *Client) Exists(ctx context.Context, rawURL string) (bool, error) {
	params := url.Values{}
	params.Set("url", rawURL)

	body, err := c.call(ctx, opQuery, "/posts/get", params)
	if err != nil {
		return false, err
	}

	var payload struct {
		Posts []struct {
			Href string `json:"href"`
		} `json:"posts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, &Error{Op: opQuery, Message: "failed to decode posts/get response", Cause: err}
	}
	return len(payload.Posts) > 0, nil
}

// Add creates the bookmark. Existing bookmarks are never replaced; a URL that
// is already saved comes back as a rejected result rather than an overwrite.
func (c *Client) Add(ctx context.Context, b Bookmark) error {
	params := url.Values{}
	params.Set("url", b.URL)
	params.Set("description", truncate(b.Title, MaxTitleLen))
	params.Set("extended", truncate(b.Extended, MaxExtendedLen))
	params.Set("tags", joinTags(b.Tags))
	params.Set("replace", "no")
	if !b.CreatedAt.IsZero() {
		params.Set("dt", b.CreatedAt.UTC().Format(timeLayout))
	}

	body, err := c.call(ctx, opAdd, "/posts/add", params)
	if err != nil {
		return err
	}

	var payload struct {
		ResultCode string `json:"result_code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &Error{Op: opAdd, Message: "failed to decode posts/add response", Cause: err}
	}
	if payload.ResultCode != "done" {
		return &Error{Op: opAdd, Message: fmt.Sprintf("posts/add rejected: %s", payload.ResultCode)}
	}
	return nil
}

func (c *Client) call(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	params.Set("auth_token", c.token)
	params.Set("format", "json")

	c.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.http.Do(req)
	c.lastCall = time.Now()
	if err != nil {
		return nil, &Error{Op: op, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}
	return body, nil
}

// wait sleeps until at least the throttle interval has passed since the
// previous call.
func (c *Client) wait() {
	if c.throttle <= 0 || c.lastCall.IsZero() {
		return
	}
	if elapsed := time.Since(c.lastCall); elapsed < c.throttle {
		time.Sleep(c.throttle - elapsed)
	}
}

// joinTags renders tags for the wire. Pinboard separates tags with spaces, so
// whitespace inside a tag is stripped.
func joinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.Join(strings.Fields(tag), "")
		if tag != "" {
			out = append(out, tag)
		}
	}
	return strings.Join(out, " ")
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
