package repositories

import (
	"context"

	"github.com/google/uuid"
	"tracebloom.backend/internal/domain/entities"
)

// PaymentRepository defines farmer payment ledger operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	ListByFarmerWallet(ctx context.Context, wallet string) ([]*entities.Payment, error)
	ListByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Payment, error)
}

// ConsumerPaymentRepository defines consumer payment ledger operations
type ConsumerPaymentRepository interface {
	Create(ctx context.Context, payment *entities.ConsumerPayment) error
	ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.ConsumerPayment, error)
}
