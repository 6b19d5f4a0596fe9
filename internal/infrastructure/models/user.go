package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         *string   `gorm:"type:varchar(255);uniqueIndex"`
	Name          *string   `gorm:"type:varchar(100)"`
	WalletAddress *string   `gorm:"type:varchar(42);uniqueIndex"`
	PasswordHash  *string   `gorm:"type:varchar(255)"`
	Role          string    `gorm:"type:varchar(20);not null"`
	Nonce         string    `gorm:"type:varchar(64);not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
