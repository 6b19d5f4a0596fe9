package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tracebloom.backend/internal/domain/entities"
	"tracebloom.backend/internal/infrastructure/models"
	"tracebloom.backend/pkg/utils"
)

// ReviewRepository implements review operations
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a review
func (r *ReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	m := &models.Review{
		ID:         review.ID,
		BatchID:    review.BatchID,
		ConsumerID: review.ConsumerID,
		Rating:     review.Rating,
		Title:      review.Title,
		Comment:    review.Comment,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Consumer").Create(m).Error; err != nil {
		return err
	}
	review.CreatedAt = m.CreatedAt
	return nil
}

// ListByBatch lists reviews of a batch with the reviewer, newest first.
// A zero limit returns every review.
func (r *ReviewRepository) ListByBatch(ctx context.Context, batchID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Review, int64, error) {
	var total int64
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Review{}).Where("batch_id = ?", batchID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Review
	query = GetDB(ctx, r.db).WithContext(ctx).
		Preload("Consumer").
		Where("batch_id = ?", batchID).
		Order("created_at DESC")
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Review, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		rv := &entities.Review{
			ID:         m.ID,
			BatchID:    m.BatchID,
			ConsumerID: m.ConsumerID,
			Rating:     m.Rating,
			Title:      m.Title,
			Comment:    m.Comment,
			CreatedAt:  m.CreatedAt,
		}
		if m.Consumer.ID != uuid.Nil {
			rv.Consumer = userToEntity(&m.Consumer)
		}
		out = append(out, rv)
	}
	return out, total, nil
}
