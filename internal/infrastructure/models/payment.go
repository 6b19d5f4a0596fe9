package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID       uuid.UUID `gorm:"type:uuid;not null;index"`
	DistributorID uuid.UUID `gorm:"type:uuid;not null;index"`
	FarmerWallet  string    `gorm:"type:varchar(42);not null;index"`
	Amount        float64   `gorm:"type:double precision;not null;default:0"`
	Status        string    `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time

	Batch Batch `gorm:"foreignKey:BatchID"`
}

type ConsumerPayment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ConsumerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DistributorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        float64   `gorm:"type:double precision;not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time

	Batch       Batch `gorm:"foreignKey:BatchID"`
	Distributor User  `gorm:"foreignKey:DistributorID"`
}
