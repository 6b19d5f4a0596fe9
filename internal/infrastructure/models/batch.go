package models

import (
	"time"

	"github.com/google/uuid"
)

type Batch struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FarmerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	FarmerWallet string     `gorm:"type:varchar(42);not null;index"`
	FarmerName   string     `gorm:"type:varchar(100);not null"`
	FarmerPhone  string     `gorm:"type:varchar(32);not null"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Description  *string    `gorm:"type:text"`
	Quantity     float64    `gorm:"type:double precision;not null"`
	Location     *string    `gorm:"type:varchar(255)"`
	HarvestDate  *time.Time `gorm:"type:timestamp"`
	Status       string     `gorm:"type:varchar(20);not null;index"`
	ImageURL     *string    `gorm:"type:varchar(1024)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index"`

	DistributorActions []DistributorAction `gorm:"foreignKey:BatchID"`
	ConsumerActions    []ConsumerAction    `gorm:"foreignKey:BatchID"`
}

// DistributorAction is one distributor decision; at most one accepted row per batch
type DistributorAction struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID          uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_distributor_batches_accepted,where:action = 'accepted'"`
	DistributorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DistributorName  string    `gorm:"type:varchar(100);not null"`
	DistributorEmail string    `gorm:"type:varchar(255);not null"`
	Action           string    `gorm:"type:varchar(20);not null"`
	CreatedAt        time.Time
}

func (DistributorAction) TableName() string {
	return "distributor_batches"
}

// ConsumerAction is one consumer decision; at most one row per (batch, consumer)
type ConsumerAction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_consumer_batches_batch_consumer"`
	ConsumerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_consumer_batches_batch_consumer;index"`
	ConsumerEmail string    `gorm:"type:varchar(255)"`
	Action        string    `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time

	Batch    Batch `gorm:"foreignKey:BatchID"`
	Consumer User  `gorm:"foreignKey:ConsumerID"`
}

func (ConsumerAction) TableName() string {
	return "consumer_batches"
}
