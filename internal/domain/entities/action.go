package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionType is an actor's decision on a batch
type ActionType string

const (
	ActionAccepted ActionType = "accepted"
	ActionRejected ActionType = "rejected"
)

// DistributorAction records one distributor decision on one batch
type DistributorAction struct {
	ID               uuid.UUID  `json:"id"`
	BatchID          uuid.UUID  `json:"batchId"`
	DistributorID    uuid.UUID  `json:"distributorId"`
	DistributorName  string     `json:"distributorName"`
	DistributorEmail string     `json:"distributorEmail"`
	Action           ActionType `json:"action"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// ConsumerAction records one consumer decision on one batch
type ConsumerAction struct {
	ID            uuid.UUID  `json:"id"`
	BatchID       uuid.UUID  `json:"batchId"`
	ConsumerID    uuid.UUID  `json:"consumerId"`
	ConsumerEmail string     `json:"consumerEmail"`
	Action        ActionType `json:"action"`
	CreatedAt     time.Time  `json:"createdAt"`

	Batch *Batch `json:"batch,omitempty"`
}

// Shipment is an accepted consumer decision on a batch a distributor carried
type Shipment struct {
	ConsumerAction
	Consumer *ShipmentConsumer `json:"consumer"`
}

// ShipmentConsumer is the consumer projection shown on shipments
type ShipmentConsumer struct {
	Email string `json:"email"`
}

// DistributorDecisionInput is the body of distributor accept/reject
type DistributorDecisionInput struct {
	BatchID          string `json:"batchId" binding:"required,uuid"`
	DistributorEmail string `json:"distributorEmail" binding:"required,email"`
	DistributorName  string `json:"distributorName" binding:"required"`
}

// ConsumerDecisionInput is the body of consumer accept/reject
type ConsumerDecisionInput struct {
	BatchID       string `json:"batchId" binding:"required,uuid"`
	ConsumerID    string `json:"consumerId" binding:"required,uuid"`
	ConsumerEmail string `json:"consumerEmail" binding:"omitempty,email"`
}
