// Package store keeps member credentials (email and bcrypt hash).
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"club-hours/internal/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound = errors.New("credential not found")
	ErrExists   = errors.New("credential already exists")
)

// Credentials is implemented by the MySQL (gorm) and SQLite backends.
// Emails are matched case-insensitively.
type Credentials interface {
	Migrate(ctx context.Context) error
	// ByEmail returns nil, nil when no credential exists.
	ByEmail(ctx context.Context, email string) (*model.Credential, error)
	Create(ctx context.Context, email, passwordHash string) error
	SetPassword(ctx context.Context, email, passwordHash string) error
	Close() error
}

var (
	_ Credentials = (*GormStore)(nil)
	_ Credentials = (*SQLiteStore)(nil)
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the credential's hash.
func CheckPassword(c *model.Credential, password string) bool {
	return c != nil && bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
}
