package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is how long a login session stays valid.
const SessionTTL = 24 * time.Hour

// CreateUser inserts a new user. The first user ever created becomes admin.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	isAdmin := count == 0

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)`,
		username, passwordHash, isAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	return &User{ID: id, Username: username, IsAdmin: isAdmin}, nil
}

// UserByUsername finds a user case-insensitively and returns their stored
// password hash alongside. Returns ErrNotFound when the username is unknown.
func (s *Store) UserByUsername(ctx context.Context, username string) (*User, string, error) {
	user := &User{}
	var hash string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, default_alias
		 FROM users WHERE username = ? COLLATE NOCASE`,
		username,
	).Scan(&user.ID, &user.Username, &hash, &user.IsAdmin, &user.DefaultAlias)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	return user, hash, nil
}

// UserByID retrieves a user by id. Returns ErrNotFound when absent.
func (s *Store) UserByID(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, is_admin, default_alias FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Username, &user.IsAdmin, &user.DefaultAlias)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, is_admin, default_alias FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.IsAdmin, &u.DefaultAlias); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetDefaultAlias records the alias used when a query matches nothing.
func (s *Store) SetDefaultAlias(ctx context.Context, userID int64, alias string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET default_alias = ? WHERE id = ?`, alias, userID)
	if err != nil {
		return fmt.Errorf("failed to set default alias: %w", err)
	}
	return nil
}

// CreateSession opens a new session for the user and returns its id.
func (s *Store) CreateSession(ctx context.Context, userID int64) (string, error) {
	id := uuid.New().String()
	expiresAt := time.Now().UTC().Add(SessionTTL)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		id, userID, expiresAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// UserIDForSession validates a session id and returns its user. Expired or
// unknown sessions return ErrNotFound.
func (s *Store) UserIDForSession(ctx context.Context, sessionID string) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM sessions WHERE id = ? AND expires_at > ?`,
		sessionID, time.Now().UTC(),
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to validate session: %w", err)
	}
	return userID, nil
}

// DeleteSession removes a single session (logout).
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions removes every session of a user, e.g. after a password
// change.
func (s *Store) DeleteUserSessions(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// CleanupExpiredSessions deletes expired sessions and reports how many were
// removed.
func (s *Store) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return res.RowsAffected()
}
