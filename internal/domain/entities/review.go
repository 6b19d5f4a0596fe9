package entities

import (
	"time"

	"github.com/google/uuid"
)

// Review is a consumer rating of a batch
type Review struct {
	ID         uuid.UUID `json:"id"`
	BatchID    uuid.UUID `json:"batchId"`
	ConsumerID uuid.UUID `json:"consumerId"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`

	Consumer *User `json:"consumer,omitempty"`
}

// CreateReviewInput is the body of a review submission
type CreateReviewInput struct {
	BatchID    string `json:"batchId" binding:"required,uuid"`
	ConsumerID string `json:"consumerId" binding:"required,uuid"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Title      string `json:"title" binding:"max=200"`
	Comment    string `json:"comment" binding:"max=2000"`
}
