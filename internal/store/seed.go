package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed seeds.yaml
var seedsYAML []byte

// SeedGlobals imports the built-in global bookmark set when the global set
// is empty. It returns the number of bookmarks imported.
func (s *Store) SeedGlobals(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE user_id IS NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count global bookmarks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	result, err := s.ImportYAML(ctx, seedsYAML, nil)
	if err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return result.Imported, fmt.Errorf("seeding errors: %s", strings.Join(result.Errors, "; "))
	}
	return result.Imported, nil
}

// SeedGlobalsFromFile imports global bookmarks from a YAML file. Existing
// aliases are skipped, so re-importing an updated file only adds new ones.
func (s *Store) SeedGlobalsFromFile(ctx context.Context, path string) (*ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seeds file: %w", err)
	}
	return s.ImportYAML(ctx, content, nil)
}
