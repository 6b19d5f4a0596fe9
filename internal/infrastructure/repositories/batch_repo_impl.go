package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/infrastructure/models"
)

// BatchRepository implements batch data operations
type BatchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create creates a new batch
func (r *BatchRepository) Create(ctx context.Context, batch *entities.Batch) error {
	m := &models.Batch{
		ID:           batch.ID,
		FarmerID:     batch.FarmerID,
		FarmerWallet: strings.ToLower(batch.FarmerWallet),
		FarmerName:   batch.FarmerName,
		FarmerPhone:  batch.FarmerPhone,
		Name:         batch.CropType,
		Description:  batch.Description.Ptr(),
		Quantity:     batch.Quantity,
		Location:     batch.Location.Ptr(),
		HarvestDate:  batch.HarvestDate.Ptr(),
		Status:       string(batch.Status),
		ImageURL:     batch.ImageURL.Ptr(),
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	batch.CreatedAt = m.CreatedAt
	batch.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a batch by ID, taking a row lock when the context asks for one
func (r *BatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Batch, error) {
	var m models.Batch
	if err := readDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return batchToEntity(&m), nil
}

// ListByFarmerWallet lists a farmer's batches, newest first
func (r *BatchRepository) ListByFarmerWallet(ctx context.Context, wallet string) ([]*entities.Batch, error) {
	var ms []models.Batch
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("farmer_wallet = ?", strings.ToLower(wallet)).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return batchesToEntities(ms), nil
}

// ListVisibleToDistributor lists batches the distributor has not acted on, newest first
func (r *BatchRepository) ListVisibleToDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Batch, error) {
	var ms []models.Batch
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM distributor_batches db WHERE db.batch_id = batches.id AND db.distributor_id = ?)", distributorID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return batchesToEntities(ms), nil
}

// ListVisibleToConsumer lists in-transit batches some distributor accepted and the
// consumer has not rejected, most recently updated first
func (r *BatchRepository) ListVisibleToConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.Batch, error) {
	var ms []models.Batch
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ?", string(entities.BatchStatusInTransit)).
		Where("EXISTS (SELECT 1 FROM distributor_batches db WHERE db.batch_id = batches.id AND db.action = ?)", string(entities.ActionAccepted)).
		Where("NOT EXISTS (SELECT 1 FROM consumer_batches cb WHERE cb.batch_id = batches.id AND cb.consumer_id = ? AND cb.action = ?)", consumerID, string(entities.ActionRejected)).
		Order("updated_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return batchesToEntities(ms), nil
}

// TransitionStatus is a compare-and-set on the batch status
func (r *BatchRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.BatchStatus) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidTransition
	}
	return nil
}

func batchToEntity(m *models.Batch) *entities.Batch {
	return &entities.Batch{
		ID:           m.ID,
		FarmerID:     m.FarmerID,
		FarmerWallet: m.FarmerWallet,
		FarmerName:   m.FarmerName,
		FarmerPhone:  m.FarmerPhone,
		CropType:     m.Name,
		Quantity:     m.Quantity,
		Description:  null.StringFromPtr(m.Description),
		Location:     null.StringFromPtr(m.Location),
		HarvestDate:  null.TimeFromPtr(m.HarvestDate),
		Status:       entities.BatchStatus(m.Status),
		ImageURL:     null.StringFromPtr(m.ImageURL),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func batchesToEntities(ms []models.Batch) []*entities.Batch {
	out := make([]*entities.Batch, 0, len(ms))
	for i := range ms {
		out = append(out, batchToEntity(&ms[i]))
	}
	return out
}
