package store

import (
	"context"
	"errors"
	"fmt"

	"club-hours/internal/model"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// GormStore keeps credentials in MySQL through gorm.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.Credential{}); err != nil {
		return fmt.Errorf("migrate details: %w", err)
	}
	return nil
}

func (s *GormStore) ByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var c model.Credential
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", normalizeEmail(email)).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query credential: %w", err)
	}
	return &c, nil
}

func (s *GormStore) Create(ctx context.Context, email, passwordHash string) error {
	c := model.Credential{Email: normalizeEmail(email), Password: passwordHash}
	err := s.db.WithContext(ctx).Create(&c).Error
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (s *GormStore) SetPassword(ctx context.Context, email, passwordHash string) error {
	res := s.db.WithContext(ctx).Model(&model.Credential{}).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("update credential: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
