package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleYAML = `
- alias: g
  description: Search google
  url: https://www.google.com
  command: https://www.google.com/search?q={query}
- alias: gh
  description: github profiles
  url: https://github.com
  command: https://github.com/{query}
  encode: false
- alias: media
  description: media sites
  url: https://example.com
  nested:
    - alias: yt
      description: youtube
      url: https://www.youtube.com
      command: https://www.youtube.com/results?search_query={query}
    - alias: sc
      description: soundcloud
      url: https://soundcloud.com
`

func TestImportYAML(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	result, err := s.ImportYAML(ctx, []byte(sampleYAML), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	commands, err := s.GlobalCommands(ctx)
	require.NoError(t, err)
	require.Len(t, commands, 3)

	media := commands["media"]
	require.NotNil(t, media)
	require.Len(t, media.Children, 2)

	t.Run("reimport skips existing aliases", func(t *testing.T) {
		result, err := s.ImportYAML(ctx, []byte(sampleYAML), nil)
		require.NoError(t, err)
		assert.Zero(t, result.Imported)
		assert.Equal(t, 3, result.Skipped)
	})

	t.Run("malformed template collected as error", func(t *testing.T) {
		bad := "- alias: broken\n  description: nope\n  url: https://example.com\n  command: https://example.com/{oops\n"
		result, err := s.ImportYAML(ctx, []byte(bad), nil)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "broken")
	})
}

func TestExportYAML(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.ImportYAML(ctx, []byte(sampleYAML), nil)
	require.NoError(t, err)

	out, err := s.ExportYAML(ctx, nil)
	require.NoError(t, err)

	var settings []Settings
	require.NoError(t, yaml.Unmarshal(out, &settings))
	require.Len(t, settings, 3)

	t.Run("empty optional fields omitted", func(t *testing.T) {
		text := string(out)
		// Only gh carries encode: false; nothing else serializes encode.
		assert.Equal(t, 1, strings.Count(text, "encode:"))
		// Plain bookmarks have no command key (sc inside media).
		for _, s := range settings {
			if s.Alias == "media" {
				assert.Empty(t, s.Command)
				require.Len(t, s.Nested, 2)
			}
		}
	})

	t.Run("round trip preserves settings", func(t *testing.T) {
		fresh := setupStore(t)
		result := fresh.ImportSettings(ctx, settings, nil)
		assert.Equal(t, 3, result.Imported)

		again, err := fresh.ExportYAML(ctx, nil)
		require.NoError(t, err)
		assert.YAMLEq(t, string(out), string(again))
	})
}
