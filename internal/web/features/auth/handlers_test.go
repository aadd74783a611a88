package auth_test

import (
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrodal98/brunnylol/internal/web/features"
)

func TestRegisterAndLogin(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	// The session cookie is live: the landing page shows the account.
	resp := f.Get(t, "/")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "jrodal98")

	// Logout drops it again.
	logout, err := f.Client.PostForm(f.Server.URL+"/logout", nil)
	require.NoError(t, err)
	logout.Body.Close()
	require.Equal(t, http.StatusSeeOther, logout.StatusCode)

	resp = f.Get(t, "/")
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.NotContains(t, string(body), "jrodal98")

	// And logging back in restores it.
	login, err := f.Client.PostForm(f.Server.URL+"/login", url.Values{
		"username": {"jrodal98"},
		"password": {"hunter2secret"},
	})
	require.NoError(t, err)
	login.Body.Close()
	require.Equal(t, http.StatusSeeOther, login.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	resp, err := f.Client.PostForm(f.Server.URL+"/login", url.Values{
		"username": {"jrodal98"},
		"password": {"not-the-password"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "invalid username or password")
}

func TestRegisterValidation(t *testing.T) {
	f := features.SetupTestFixture(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "username too short",
			form: url.Values{"username": {"ab"}, "password": {"hunter2secret"}, "confirm_password": {"hunter2secret"}},
		},
		{
			name: "password too short",
			form: url.Values{"username": {"jrodal98"}, "password": {"short"}, "confirm_password": {"short"}},
		},
		{
			name: "passwords do not match",
			form: url.Values{"username": {"jrodal98"}, "password": {"hunter2secret"}, "confirm_password": {"hunter2different"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.Client.PostForm(f.Server.URL+"/register", tt.form)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := features.SetupTestFixture(t)
	f.Register(t, "jrodal98", "hunter2secret")

	resp, err := f.Client.PostForm(f.Server.URL+"/register", url.Values{
		"username":         {"jrodal98"},
		"password":         {"hunter2secret"},
		"confirm_password": {"hunter2secret"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "username is taken")
}
