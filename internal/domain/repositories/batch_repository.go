package repositories

import (
	"context"

	"github.com/google/uuid"
	"tracebloom.backend/internal/domain/entities"
)

// BatchRepository defines batch data operations
type BatchRepository interface {
	Create(ctx context.Context, batch *entities.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Batch, error)
	ListByFarmerWallet(ctx context.Context, wallet string) ([]*entities.Batch, error)
	// ListVisibleToDistributor returns batches the distributor has not acted on yet
	ListVisibleToDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Batch, error)
	// ListVisibleToConsumer returns in-transit batches with an accepted distributor
	// that the consumer has not rejected
	ListVisibleToConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.Batch, error)
	// TransitionStatus moves a batch from one status to another, failing with
	// ErrInvalidTransition when the batch is no longer in the from status
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.BatchStatus) error
}

// DistributorActionRepository defines distributor decision log operations
type DistributorActionRepository interface {
	Create(ctx context.Context, action *entities.DistributorAction) error
	GetAccepted(ctx context.Context, batchID uuid.UUID) (*entities.DistributorAction, error)
}

// ConsumerActionRepository defines consumer decision log operations
type ConsumerActionRepository interface {
	Create(ctx context.Context, action *entities.ConsumerAction) error
	Get(ctx context.Context, batchID, consumerID uuid.UUID) (*entities.ConsumerAction, error)
	ListAcceptedByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.ConsumerAction, error)
	ListShipmentsByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Shipment, error)
}
