package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// Payment is owed by a distributor to the farmer of a batch
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	BatchID       uuid.UUID     `json:"batchId"`
	DistributorID uuid.UUID     `json:"distributorId"`
	FarmerWallet  string        `json:"farmerWallet"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`

	// Joins
	Batch *Batch `json:"batch,omitempty"`
}

// ConsumerPayment is owed by a consumer to the distributor of a batch
type ConsumerPayment struct {
	ID            uuid.UUID     `json:"id"`
	BatchID       uuid.UUID     `json:"batchId"`
	ConsumerID    uuid.UUID     `json:"consumerId"`
	DistributorID uuid.UUID     `json:"distributorId"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`

	// Joins
	Batch       *Batch `json:"batch,omitempty"`
	Distributor *User  `json:"distributor,omitempty"`
}

// FarmerPaymentSummary is the farmer-facing view of a payment
type FarmerPaymentSummary struct {
	BatchID     uuid.UUID     `json:"batchId"`
	Amount      float64       `json:"amount"`
	Status      PaymentStatus `json:"status"`
	Date        string        `json:"date"`
	Description null.String   `json:"description"`
}

// FarmerSummary converts a payment to its farmer-facing view
func (p *Payment) FarmerSummary() *FarmerPaymentSummary {
	s := &FarmerPaymentSummary{
		BatchID: p.BatchID,
		Amount:  p.Amount,
		Status:  p.Status,
		Date:    p.CreatedAt.UTC().Format(HarvestDateLayout),
	}
	if p.Batch != nil {
		s.Description = p.Batch.Description
	}
	return s
}
