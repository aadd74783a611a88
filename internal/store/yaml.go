package store

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the import/export representation of one bookmark. Optional
// fields are omitted when empty so exports stay minimal.
type Settings struct {
	Alias       string     `yaml:"alias" json:"alias"`
	Description string     `yaml:"description" json:"description"`
	URL         string     `yaml:"url" json:"url"`
	Command     string     `yaml:"command,omitempty" json:"command,omitempty"`
	Encode      *bool      `yaml:"encode,omitempty" json:"encode,omitempty"`
	Nested      []Settings `yaml:"nested,omitempty" json:"nested,omitempty"`
}

// ImportResult summarizes a bookmark import.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// ImportSettings creates bookmarks from parsed settings. userID nil imports
// into the global set. Alias collisions are skipped, other failures are
// collected per alias.
func (s *Store) ImportSettings(ctx context.Context, settings []Settings, userID *int64) *ImportResult {
	result := &ImportResult{}

	for _, setting := range settings {
		b := settingToBookmark(setting, userID)
		_, err := s.CreateBookmark(ctx, b)
		switch {
		case err == nil:
			result.Imported++
		case strings.Contains(err.Error(), "UNIQUE constraint"):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("'%s': %v", setting.Alias, err))
		}
	}
	return result
}

// ImportYAML parses YAML bookmark settings and imports them.
func (s *Store) ImportYAML(ctx context.Context, content []byte, userID *int64) (*ImportResult, error) {
	var settings []Settings
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse bookmark data: %w", err)
	}
	return s.ImportSettings(ctx, settings, userID), nil
}

// ExportYAML serializes a user's bookmarks (or the global set when userID is
// nil) as YAML.
func (s *Store) ExportYAML(ctx context.Context, userID *int64) ([]byte, error) {
	var (
		bookmarks []Bookmark
		err       error
	)
	if userID == nil {
		bookmarks, err = s.GlobalBookmarks(ctx)
	} else {
		bookmarks, err = s.UserBookmarks(ctx, *userID)
	}
	if err != nil {
		return nil, err
	}

	settings := make([]Settings, 0, len(bookmarks))
	for i := range bookmarks {
		settings = append(settings, bookmarkToSetting(&bookmarks[i]))
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize bookmarks: %w", err)
	}
	return out, nil
}

func settingToBookmark(setting Settings, userID *int64) *Bookmark {
	kind := KindVariable
	if len(setting.Nested) > 0 {
		kind = KindNested
	}

	b := &Bookmark{
		UserID:         userID,
		Alias:          setting.Alias,
		Kind:           kind,
		URL:            setting.URL,
		Description:    setting.Description,
		TemplateSource: setting.Command,
		EncodeQuery:    setting.Encode == nil || *setting.Encode,
	}
	for _, nested := range setting.Nested {
		b.Nested = append(b.Nested, NestedBookmark{
			Alias:          nested.Alias,
			URL:            nested.URL,
			Description:    nested.Description,
			TemplateSource: nested.Command,
			EncodeQuery:    nested.Encode == nil || *nested.Encode,
		})
	}
	return b
}

func bookmarkToSetting(b *Bookmark) Settings {
	setting := Settings{
		Alias:       b.Alias,
		Description: b.Description,
		URL:         b.URL,
		Command:     b.TemplateSource,
	}
	if !b.EncodeQuery {
		setting.Encode = &b.EncodeQuery
	}
	for _, n := range b.Nested {
		child := Settings{
			Alias:       n.Alias,
			Description: n.Description,
			URL:         n.URL,
			Command:     n.TemplateSource,
		}
		if !n.EncodeQuery {
			encode := n.EncodeQuery
			child.Encode = &encode
		}
		setting.Nested = append(setting.Nested, child)
	}
	return setting
}
