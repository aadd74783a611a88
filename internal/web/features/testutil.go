// Package features provides shared test utilities for web feature tests.
package features

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrodal98/brunnylol/internal/redirect"
	"github.com/jrodal98/brunnylol/internal/store"
	"github.com/jrodal98/brunnylol/internal/web"
)

// seedYAML is the global bookmark set handler tests run against.
const seedYAML = `
- alias: g
  description: Google search
  url: https://www.google.com
  command: "https://www.google.com/search?q={query}"
- alias: gh
  description: GitHub user or repo
  url: https://github.com
  command: "https://github.com/{user}/{repo?}"
- alias: media
  description: Media sites
  url: https://example.com
  nested:
    - alias: yt
      description: YouTube search
      url: https://www.youtube.com
      command: "https://www.youtube.com/results?search_query={query}"
`

// TestFixture holds a running server backed by an in-memory database and a
// client whose jar keeps the session cookie. The client does not follow
// redirects so tests can assert on Location headers.
type TestFixture struct {
	Store   *store.Store
	Cache   *store.Cache
	Service *redirect.Service
	Server  *httptest.Server
	Client  *http.Client
}

// SetupTestFixture builds a fixture with the seed bookmarks loaded and "g"
// as the default alias.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate())

	result, err := st.ImportYAML(ctx, []byte(seedYAML), nil)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	cache := store.NewCache(st)
	require.NoError(t, cache.Reload(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := redirect.NewService(st, cache, "g", logger)

	srv, err := web.NewServer(web.Config{
		Addr:          ":0",
		SessionSecret: "test-secret",
		Store:         st,
		Cache:         cache,
		Redirect:      service,
		Logger:        logger,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &TestFixture{
		Store:   st,
		Cache:   cache,
		Service: service,
		Server:  ts,
		Client:  client,
	}
}

// Register creates an account through the registration endpoint and leaves
// its session cookie in the client jar.
func (f *TestFixture) Register(t *testing.T, username, password string) {
	t.Helper()
	resp, err := f.Client.PostForm(f.Server.URL+"/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

// Get issues a GET through the fixture client.
func (f *TestFixture) Get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.Client.Get(f.Server.URL + path)
	require.NoError(t, err)
	return resp
}
