package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrodal98/brunnylol/internal/cli"
)

// execute runs the CLI against a temp database and captures stdout.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	root := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--database-path", dbPath))

	err := root.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testDB(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "brunnylol v")
}

func TestSeedAndListCommands(t *testing.T) {
	db := testDB(t)

	out, err := execute(t, db, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded")

	out, err = execute(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "wiki")
	assert.Contains(t, out, "Search google")

	// Seeding again is a no-op.
	out, err = execute(t, db, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0")
}

func TestResolveCommand(t *testing.T) {
	db := testDB(t)
	_, err := execute(t, db, "seed")
	require.NoError(t, err)

	out, err := execute(t, db, "resolve", "g", "how do i exit vim")
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/search?q=how%20do%20i%20exit%20vim\n", out)

	// The gh alias opts out of encoding, so the slash survives.
	out, err = execute(t, db, "resolve", "gh", "jrodal98/brunnylol")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/jrodal98/brunnylol\n", out)

	_, err = execute(t, db, "resolve", "")
	require.Error(t, err)
}

func TestResolveDefaultOverride(t *testing.T) {
	db := testDB(t)
	_, err := execute(t, db, "seed")
	require.NoError(t, err)

	out, err := execute(t, db, "resolve", "--default", "d", "no such alias")
	require.NoError(t, err)
	assert.Equal(t, "https://duckduckgo.com/?q=no%20such%20alias\n", out)
}

func TestSeedFromFile(t *testing.T) {
	db := testDB(t)

	seeds := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(seeds, []byte(`
- alias: hn
  description: Hacker News search
  url: https://news.ycombinator.com
  command: "https://hn.algolia.com/?q={query}"
`), 0o644))

	out, err := execute(t, db, "seed", "--file", seeds)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1")

	out, err = execute(t, db, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "alias: hn")
}
