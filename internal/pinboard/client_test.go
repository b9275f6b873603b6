package pinboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("jane:123ABC", &Options{BaseURL: server.URL, Throttle: -1})
	require.NoError(t, err)
	return client
}

func TestNewClient_EmptyToken(t *testing.T) {
	_, err := NewClient("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API token is required")
}

func TestExists_True(t *testing.T) {
	var gotQuery url.Values

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"date": "2024-03-15T09:30:00Z", "user": "jane", "posts": [{"href": "https://example.com/a"}]}`))
	}))

	exists, err := client.Exists(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "https://example.com/a", gotQuery.Get("url"))
	assert.Equal(t, "jane:123ABC", gotQuery.Get("auth_token"))
	assert.Equal(t, "json", gotQuery.Get("format"))
}

func TestExists_False(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"date": "2024-03-15T09:30:00Z", "user": "jane", "posts": []}`))
	}))

	exists, err := client.Exists(context.Background(), "https://example.com/missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExists_QueryError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Exists(context.Background(), "https://example.com/a")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "query", apiErr.Op)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestAdd_Success(t *testing.T) {
	var gotPath string
	var gotQuery url.Values

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"result_code": "done"}`))
	}))

	err := client.Add(context.Background(), Bookmark{
		URL:       "https://example.com/article",
		Title:     "An Article",
		Extended:  "Short summary.\nby Jane Doe, Example",
		Tags:      []string{".from:Reader", "go lang", "reading"},
		CreatedAt: time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "/posts/add", gotPath)
	assert.Equal(t, "https://example.com/article", gotQuery.Get("url"))
	assert.Equal(t, "An Article", gotQuery.Get("description"))
	assert.Equal(t, "Short summary.\nby Jane Doe, Example", gotQuery.Get("extended"))
	assert.Equal(t, ".from:Reader golang reading", gotQuery.Get("tags"))
	assert.Equal(t, "no", gotQuery.Get("replace"))
	assert.Equal(t, "2024-03-14T08:00:00Z", gotQuery.Get("dt"))
}

func TestAdd_OmitsZeroCreationTime(t *testing.T) {
	var gotQuery url.Values

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"result_code": "done"}`))
	}))

	err := client.Add(context.Background(), Bookmark{URL: "https://example.com/a", Title: "A"})
	require.NoError(t, err)
	assert.False(t, gotQuery.Has("dt"))
}

func TestAdd_Rejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result_code": "item already exists"}`))
	}))

	err := client.Add(context.Background(), Bookmark{URL: "https://example.com/a", Title: "A"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "add", apiErr.Op)
	assert.Contains(t, err.Error(), "item already exists")
}

func TestAdd_AuthFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.Add(context.Background(), Bookmark{URL: "https://example.com/a", Title: "A"})
	require.Error(t, err)
	assert.True(t, IsAuth(err))
}

func TestIsAuth(t *testing.T) {
	assert.True(t, IsAuth(&Error{Op: opQuery, StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsAuth(&Error{Op: opAdd, StatusCode: http.StatusForbidden}))
	assert.False(t, IsAuth(&Error{Op: opAdd, StatusCode: http.StatusInternalServerError}))
	assert.False(t, IsAuth(errors.New("plain error")))
	assert.False(t, IsAuth(nil))
}

func TestThrottle_SpacesConsecutiveCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"posts": []}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("jane:123ABC", &Options{BaseURL: server.URL, Throttle: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Exists(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	_, err = client.Exists(context.Background(), "https://example.com/b")
	require.NoError(t, err)

	// The second call must wait out the interval that started when the first
	// call completed.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, ".from:Reader golang", joinTags([]string{".from:Reader", "golang"}))
	assert.Equal(t, "readinglist", joinTags([]string{"reading list"}))
	assert.Equal(t, "a b", joinTags([]string{"a", "", "  ", "b"}))
	assert.Equal(t, "", joinTags(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 255))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	// Never splits a multi-byte rune.
	s := "abécd" // é is two bytes
	assert.Equal(t, "ab", truncate(s, 3))
	assert.Equal(t, "abé", truncate(s, 4))
}
