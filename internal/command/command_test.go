package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVariable(t *testing.T) {
	t.Run("parses template eagerly", func(t *testing.T) {
		cmd, err := NewVariable("https://example.com", "https://example.com/search?q={query}", "a test website")
		require.NoError(t, err)
		assert.Equal(t, KindVariable, cmd.Kind)
		assert.Equal(t, "a test website", cmd.Description)
		require.NotNil(t, cmd.Template)
	})

	t.Run("rejects malformed template", func(t *testing.T) {
		_, err := NewVariable("https://example.com", "https://example.com/{broken", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid template")
	})

	t.Run("empty source has no template", func(t *testing.T) {
		cmd, err := NewVariable("https://example.com", "", "plain bookmark")
		require.NoError(t, err)
		assert.Nil(t, cmd.Template)
	})
}

func TestDescend(t *testing.T) {
	leaf, err := NewVariable("https://mail.google.com", "", "gmail")
	require.NoError(t, err)

	inner := NewNested("google services")
	inner.AddChild("mail", leaf)

	root := NewNested("top")
	root.AddChild("google", inner)

	t.Run("empty path returns self", func(t *testing.T) {
		got, ok := root.Descend(nil)
		require.True(t, ok)
		assert.Same(t, root, got)
	})

	t.Run("walks two levels", func(t *testing.T) {
		got, ok := root.Descend([]string{"google", "mail"})
		require.True(t, ok)
		assert.Same(t, leaf, got)
	})

	t.Run("unknown segment fails", func(t *testing.T) {
		_, ok := root.Descend([]string{"google", "drive"})
		assert.False(t, ok)
	})

	t.Run("descending past a leaf fails", func(t *testing.T) {
		_, ok := root.Descend([]string{"google", "mail", "inbox"})
		assert.False(t, ok)
	})
}

func TestVariableIntrospection(t *testing.T) {
	cmd, err := NewVariable("https://github.com", "{url}/{author=me}/{repo?}?q={query}", "github")
	require.NoError(t, err)

	assert.True(t, cmd.HasQueryVariable())

	vars := cmd.UserVariables()
	require.Len(t, vars, 3)
	assert.Equal(t, "author", vars[0].Name)
	assert.Equal(t, "repo", vars[1].Name)
	assert.Equal(t, "query", vars[2].Name)

	noQuery, err := NewVariable("https://example.com", "{url}/{page}", "")
	require.NoError(t, err)
	assert.False(t, noQuery.HasQueryVariable())
}
