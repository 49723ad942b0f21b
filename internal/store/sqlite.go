package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"club-hours/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps credentials in a local SQLite file.
type SQLiteStore struct{ db *sql.DB }

// OpenSQLite opens path (":memory:" for tests) with WAL and a busy timeout.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS details (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate details: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var (
		c                model.Credential
		created, updated string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password, created_at, updated_at FROM details WHERE LOWER(email) = ?",
		normalizeEmail(email),
	).Scan(&c.ID, &c.Email, &c.Password, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query credential: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, created)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &c, nil
}

func (s *SQLiteStore) Create(ctx context.Context, email, passwordHash string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO details (email, password, created_at, updated_at) VALUES (?, ?, ?, ?)",
		normalizeEmail(email), passwordHash, now, now,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetPassword(ctx context.Context, email, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE details SET password = ?, updated_at = ? WHERE LOWER(email) = ?",
		passwordHash, time.Now().UTC().Format(time.RFC3339), normalizeEmail(email),
	)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
