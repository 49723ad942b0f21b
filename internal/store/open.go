package store

import (
	"fmt"
	"os"
	"path/filepath"

	"club-hours/internal/config"
)

// Open returns the credential backend named by cfg.Database.Driver.
func Open(cfg *config.Config) (Credentials, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := cfg.OpenGormDB()
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case "sqlite", "":
		path := cfg.Database.Path
		if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
