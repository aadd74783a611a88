package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jrodal98/brunnylol/internal/command"
	"github.com/jrodal98/brunnylol/internal/template"
)

// ValidateBookmark parses the bookmark's template sources so malformed
// templates are rejected before they reach the database.
func ValidateBookmark(b *Bookmark) error {
	if b.TemplateSource != "" {
		if _, err := template.Parse(b.TemplateSource); err != nil {
			return fmt.Errorf("invalid template for alias %q: %w", b.Alias, err)
		}
	}
	for _, n := range b.Nested {
		if n.TemplateSource == "" {
			continue
		}
		if _, err := template.Parse(n.TemplateSource); err != nil {
			return fmt.Errorf("invalid template for nested alias %q: %w", n.Alias, err)
		}
	}
	return nil
}

// CreateBookmark inserts a bookmark and its nested children in one
// transaction and returns the new id.
func (s *Store) CreateBookmark(ctx context.Context, b *Bookmark) (int64, error) {
	if err := ValidateBookmark(b); err != nil {
		return 0, err
	}
	kind := b.Kind
	if kind == "" {
		kind = KindVariable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, alias, kind, url, description, template_source, encode_query)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.Alias, kind, b.URL, b.Description, b.TemplateSource, b.EncodeQuery,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create bookmark: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read bookmark id: %w", err)
	}

	for i, n := range b.Nested {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nested_bookmarks (parent_id, alias, url, description, template_source, encode_query, display_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, n.Alias, n.URL, n.Description, n.TemplateSource, n.EncodeQuery, i,
		); err != nil {
			return 0, fmt.Errorf("failed to create nested bookmark %q: %w", n.Alias, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bookmark: %w", err)
	}
	return id, nil
}

// BookmarkByID retrieves a bookmark with its nested children.
func (s *Store) BookmarkByID(ctx context.Context, id int64) (*Bookmark, error) {
	b := &Bookmark{}
	var userID sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, alias, kind, url, description, template_source, encode_query
		 FROM bookmarks WHERE id = ?`, id,
	).Scan(&b.ID, &userID, &b.Alias, &b.Kind, &b.URL, &b.Description, &b.TemplateSource, &b.EncodeQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	if userID.Valid {
		b.UserID = &userID.Int64
	}

	if b.Nested, err = s.nestedFor(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// UserBookmarks returns a user's bookmarks ordered by alias, nested children
// attached.
func (s *Store) UserBookmarks(ctx context.Context, userID int64) ([]Bookmark, error) {
	return s.bookmarksWhere(ctx, `user_id = ?`, userID)
}

// GlobalBookmarks returns the shared bookmark set ordered by alias.
func (s *Store) GlobalBookmarks(ctx context.Context) ([]Bookmark, error) {
	return s.bookmarksWhere(ctx, `user_id IS NULL`)
}

func (s *Store) bookmarksWhere(ctx context.Context, where string, args ...any) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, alias, kind, url, description, template_source, encode_query
		 FROM bookmarks WHERE `+where+` ORDER BY alias`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var userID sql.NullInt64
		if err := rows.Scan(&b.ID, &userID, &b.Alias, &b.Kind, &b.URL, &b.Description, &b.TemplateSource, &b.EncodeQuery); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		if userID.Valid {
			b.UserID = &userID.Int64
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bookmarks {
		if bookmarks[i].Nested, err = s.nestedFor(ctx, bookmarks[i].ID); err != nil {
			return nil, err
		}
	}
	return bookmarks, nil
}

func (s *Store) nestedFor(ctx context.Context, parentID int64) ([]NestedBookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_id, alias, url, description, template_source, encode_query, display_order
		 FROM nested_bookmarks WHERE parent_id = ? ORDER BY display_order, alias`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nested bookmarks: %w", err)
	}
	defer rows.Close()

	var nested []NestedBookmark
	for rows.Next() {
		var n NestedBookmark
		if err := rows.Scan(&n.ID, &n.ParentID, &n.Alias, &n.URL, &n.Description, &n.TemplateSource, &n.EncodeQuery, &n.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan nested bookmark: %w", err)
		}
		nested = append(nested, n)
	}
	return nested, rows.Err()
}

// UpdateBookmark rewrites a bookmark's fields. Ownership is part of the
// predicate so users cannot update each other's (or global) bookmarks.
func (s *Store) UpdateBookmark(ctx context.Context, b *Bookmark) error {
	if err := ValidateBookmark(b); err != nil {
		return err
	}

	query := `UPDATE bookmarks
	          SET alias = ?, url = ?, description = ?, template_source = ?, encode_query = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE id = ? AND user_id `
	args := []any{b.Alias, b.URL, b.Description, b.TemplateSource, b.EncodeQuery, b.ID}
	if b.UserID == nil {
		query += `IS NULL`
	} else {
		query += `= ?`
		args = append(args, *b.UserID)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBookmark removes a bookmark (nested children cascade). userID nil
// targets global bookmarks.
func (s *Store) DeleteBookmark(ctx context.Context, id int64, userID *int64) error {
	query := `DELETE FROM bookmarks WHERE id = ? AND user_id `
	args := []any{id}
	if userID == nil {
		query += `IS NULL`
	} else {
		query += `= ?`
		args = append(args, *userID)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateNestedBookmark adds a child command under an existing bookmark.
func (s *Store) CreateNestedBookmark(ctx context.Context, n *NestedBookmark) (int64, error) {
	if n.TemplateSource != "" {
		if _, err := template.Parse(n.TemplateSource); err != nil {
			return 0, fmt.Errorf("invalid template for nested alias %q: %w", n.Alias, err)
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO nested_bookmarks (parent_id, alias, url, description, template_source, encode_query, display_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ParentID, n.Alias, n.URL, n.Description, n.TemplateSource, n.EncodeQuery, n.DisplayOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create nested bookmark: %w", err)
	}
	return res.LastInsertId()
}

// DeleteNestedBookmark removes a single child command.
func (s *Store) DeleteNestedBookmark(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nested_bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete nested bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DisabledAliases returns the global aliases this user has switched off.
func (s *Store) DisabledAliases(ctx context.Context, userID int64) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT alias FROM disabled_globals WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list disabled globals: %w", err)
	}
	defer rows.Close()

	disabled := make(map[string]bool)
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, fmt.Errorf("failed to scan disabled alias: %w", err)
		}
		disabled[alias] = true
	}
	return disabled, rows.Err()
}

// SetGlobalDisabled toggles whether a global alias is visible to the user.
func (s *Store) SetGlobalDisabled(ctx context.Context, userID int64, alias string, disabled bool) error {
	var err error
	if disabled {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO disabled_globals (user_id, alias) VALUES (?, ?)
			 ON CONFLICT (user_id, alias) DO NOTHING`,
			userID, alias)
	} else {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM disabled_globals WHERE user_id = ? AND alias = ?`,
			userID, alias)
	}
	if err != nil {
		return fmt.Errorf("failed to toggle disabled global: %w", err)
	}
	return nil
}

// UserCommands loads a user's bookmarks as a command map keyed by alias.
func (s *Store) UserCommands(ctx context.Context, userID int64) (map[string]*command.Command, error) {
	bookmarks, err := s.UserBookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return commandsFrom(bookmarks)
}

// GlobalCommands loads the shared bookmark set as a command map.
func (s *Store) GlobalCommands(ctx context.Context) (map[string]*command.Command, error) {
	bookmarks, err := s.GlobalBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	return commandsFrom(bookmarks)
}

func commandsFrom(bookmarks []Bookmark) (map[string]*command.Command, error) {
	commands := make(map[string]*command.Command, len(bookmarks))
	for i := range bookmarks {
		cmd, err := bookmarkToCommand(&bookmarks[i])
		if err != nil {
			// Stored templates are validated on write; a bad row here is
			// data corruption, not a reason to break every other alias.
			continue
		}
		commands[bookmarks[i].Alias] = cmd
	}
	return commands, nil
}

func bookmarkToCommand(b *Bookmark) (*command.Command, error) {
	if b.Kind == KindNested {
		cmd := command.NewNested(b.Description)
		for _, n := range b.Nested {
			child, err := command.NewVariable(n.URL, effectiveSource(n.TemplateSource, n.EncodeQuery), n.Description)
			if err != nil {
				return nil, err
			}
			cmd.AddChild(n.Alias, child)
		}
		return cmd, nil
	}
	return command.NewVariable(b.URL, effectiveSource(b.TemplateSource, b.EncodeQuery), b.Description)
}

// effectiveSource bridges the stored encode_query flag into the template
// language: a non-encoding bookmark gets the !encode pipeline spliced onto
// its query variable.
func effectiveSource(source string, encode bool) string {
	if encode || source == "" {
		return source
	}
	return strings.ReplaceAll(source, "{query}", "{query|!encode}")
}
