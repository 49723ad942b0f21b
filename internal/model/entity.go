package model

import "time"

// Credential is a member's login secret. Members themselves live in the
// records service; only email and password hash are kept locally.
type Credential struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Credential) TableName() string { return "details" }
