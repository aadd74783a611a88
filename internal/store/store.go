// Package store persists users, sessions and bookmarks in SQLite and loads
// bookmarks back as command trees.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the SQLite database at path, creating it if necessary. Use
// ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each new connection would get its own empty memory database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// User is an account that can own bookmarks. The first registered user
// becomes admin.
type User struct {
	ID           int64
	Username     string
	IsAdmin      bool
	DefaultAlias string
}

// Bookmark is a stored command: a plain bookmark (empty TemplateSource), a
// templated one, or a nested group (Kind "nested", children in Nested).
// A nil UserID marks a global bookmark.
type Bookmark struct {
	ID             int64
	UserID         *int64
	Alias          string
	Kind           string
	URL            string
	Description    string
	TemplateSource string
	EncodeQuery    bool
	Nested         []NestedBookmark
}

// NestedBookmark is a child command under a nested bookmark.
type NestedBookmark struct {
	ID             int64
	ParentID       int64
	Alias          string
	URL            string
	Description    string
	TemplateSource string
	EncodeQuery    bool
	DisplayOrder   int
}

// Bookmark kinds.
const (
	KindVariable = "variable"
	KindNested   = "nested"
)
