package repositories

import (
	"context"

	"github.com/google/uuid"
	"tracebloom.backend/internal/domain/entities"
	"tracebloom.backend/pkg/utils"
)

// ReviewRepository defines review operations
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.Review) error
	ListByBatch(ctx context.Context, batchID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Review, int64, error)
}
