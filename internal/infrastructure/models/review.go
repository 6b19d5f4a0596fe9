package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ConsumerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null"`
	Title      string    `gorm:"type:varchar(200)"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time

	Consumer User `gorm:"foreignKey:ConsumerID"`
}

func (Review) TableName() string {
	return "consumer_reviews"
}
