package bookmarks_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrodal98/brunnylol/internal/web/features"
)

func doJSON(t *testing.T, f *features.TestFixture, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, f.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestBookmarksRequireAuth(t *testing.T) {
	f := features.SetupTestFixture(t)

	resp := f.Get(t, "/api/bookmarks")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBookmarkCRUD(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	// Create.
	resp := doJSON(t, f, http.MethodPost, "/api/bookmarks", map[string]any{
		"alias":       "hn",
		"description": "Hacker News search",
		"url":         "https://news.ycombinator.com",
		"command":     "https://hn.algolia.com/?q={query}",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	id := int64(created["id"].(float64))
	require.NotZero(t, id)

	// The new alias resolves immediately.
	search := f.Get(t, "/search?q=hn+rust")
	search.Body.Close()
	require.Equal(t, http.StatusSeeOther, search.StatusCode)
	assert.Equal(t, "https://hn.algolia.com/?q=rust", search.Header.Get("Location"))

	// List.
	resp = f.Get(t, "/api/bookmarks")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]map[string]any](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "hn", list[0]["alias"])

	// Update.
	idPath := "/api/bookmarks/" + strconv.FormatInt(id, 10)
	resp = doJSON(t, f, http.MethodPut, idPath, map[string]any{
		"alias":       "hn",
		"description": "Hacker News",
		"url":         "https://news.ycombinator.com",
		"command":     "https://hn.algolia.com/?q={query}",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Delete.
	resp = doJSON(t, f, http.MethodDelete, idPath, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = f.Get(t, "/api/bookmarks")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]map[string]any](t, resp))
}

func TestBookmarkCreateRejections(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	// Malformed template.
	resp := doJSON(t, f, http.MethodPost, "/api/bookmarks", map[string]any{
		"alias":   "bad",
		"url":     "https://example.com",
		"command": "https://example.com/{unclosed",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Missing fields.
	resp = doJSON(t, f, http.MethodPost, "/api/bookmarks", map[string]any{"alias": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Duplicate alias.
	good := map[string]any{"alias": "dup", "url": "https://example.com"}
	resp = doJSON(t, f, http.MethodPost, "/api/bookmarks", good)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, f, http.MethodPost, "/api/bookmarks", good)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestImportExport(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	yamlBody := `
- alias: hn
  description: Hacker News search
  url: https://news.ycombinator.com
  command: "https://hn.algolia.com/?q={query}"
- alias: crates
  description: Rust crate search
  url: https://crates.io
  command: "https://crates.io/search?q={query}"
`
	req, err := http.NewRequest(http.MethodPost, f.Server.URL+"/api/bookmarks/import", strings.NewReader(yamlBody))
	require.NoError(t, err)
	resp, err := f.Client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[map[string]any](t, resp)
	assert.Equal(t, float64(2), result["imported"])

	export := f.Get(t, "/api/bookmarks/export")
	defer export.Body.Close()
	require.Equal(t, http.StatusOK, export.StatusCode)
	out, err := io.ReadAll(export.Body)
	require.NoError(t, err)
	assert.Contains(t, string(out), "alias: hn")
	assert.Contains(t, string(out), "alias: crates")
}

func TestGlobalImportRequiresAdmin(t *testing.T) {
	f := features.SetupTestFixture(t)
	// First account is admin, second is not.
	f.Register(t, "admin", "hunter2secret")
	f.Register(t, "jrodal98", "hunter2secret")

	req, err := http.NewRequest(http.MethodPost, f.Server.URL+"/api/bookmarks/import?global=true",
		strings.NewReader("- alias: xx\n  description: x\n  url: https://example.com\n"))
	require.NoError(t, err)
	resp, err := f.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDisableGlobal(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	resp := doJSON(t, f, http.MethodPost, "/api/globals/gh/disable", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The alias now falls through to the default search.
	search := f.Get(t, "/search?q=gh+jrodal98")
	search.Body.Close()
	require.Equal(t, http.StatusSeeOther, search.StatusCode)
	assert.Equal(t, "https://www.google.com/search?q=gh%20jrodal98", search.Header.Get("Location"))

	// Re-enabling restores it.
	resp = doJSON(t, f, http.MethodDelete, "/api/globals/gh/disable", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	search = f.Get(t, "/search?q=gh+jrodal98")
	search.Body.Close()
	require.Equal(t, http.StatusSeeOther, search.StatusCode)
	assert.Equal(t, "https://github.com/jrodal98/", search.Header.Get("Location"))
}

func TestDisableUnknownGlobal(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	resp := doJSON(t, f, http.MethodPost, "/api/globals/nosuch/disable", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetDefaultAlias(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	resp := doJSON(t, f, http.MethodPut, "/api/settings/default-alias", map[string]string{
		"default_alias": "gh",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	user, _, err := f.Store.UserByUsername(context.Background(), "jrodal98")
	require.NoError(t, err)
	assert.Equal(t, "gh", user.DefaultAlias)
}
