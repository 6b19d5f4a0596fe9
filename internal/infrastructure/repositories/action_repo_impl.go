package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/infrastructure/models"
)

// DistributorActionRepository implements the distributor decision log
type DistributorActionRepository struct {
	db *gorm.DB
}

// NewDistributorActionRepository creates a new distributor action repository
func NewDistributorActionRepository(db *gorm.DB) *DistributorActionRepository {
	return &DistributorActionRepository{db: db}
}

// Create appends a decision. A second accepted row for a batch violates the
// partial unique index and comes back as ErrAlreadyAccepted.
func (r *DistributorActionRepository) Create(ctx context.Context, action *entities.DistributorAction) error {
	m := &models.DistributorAction{
		ID:               action.ID,
		BatchID:          action.BatchID,
		DistributorID:    action.DistributorID,
		DistributorName:  action.DistributorName,
		DistributorEmail: action.DistributorEmail,
		Action:           string(action.Action),
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyAccepted
		}
		return err
	}
	action.CreatedAt = m.CreatedAt
	return nil
}

// GetAccepted returns the accepted decision on a batch
func (r *DistributorActionRepository) GetAccepted(ctx context.Context, batchID uuid.UUID) (*entities.DistributorAction, error) {
	var m models.DistributorAction
	err := readDB(ctx, r.db).
		Where("batch_id = ? AND action = ?", batchID, string(entities.ActionAccepted)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.DistributorAction{
		ID:               m.ID,
		BatchID:          m.BatchID,
		DistributorID:    m.DistributorID,
		DistributorName:  m.DistributorName,
		DistributorEmail: m.DistributorEmail,
		Action:           entities.ActionType(m.Action),
		CreatedAt:        m.CreatedAt,
	}, nil
}

// ConsumerActionRepository implements the consumer decision log
type ConsumerActionRepository struct {
	db *gorm.DB
}

// NewConsumerActionRepository creates a new consumer action repository
func NewConsumerActionRepository(db *gorm.DB) *ConsumerActionRepository {
	return &ConsumerActionRepository{db: db}
}

// Create appends a decision; one row per (batch, consumer)
func (r *ConsumerActionRepository) Create(ctx context.Context, action *entities.ConsumerAction) error {
	m := &models.ConsumerAction{
		ID:            action.ID,
		BatchID:       action.BatchID,
		ConsumerID:    action.ConsumerID,
		ConsumerEmail: action.ConsumerEmail,
		Action:        string(action.Action),
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Batch", "Consumer").Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyActed
		}
		return err
	}
	action.CreatedAt = m.CreatedAt
	return nil
}

// Get returns the decision of one consumer on one batch
func (r *ConsumerActionRepository) Get(ctx context.Context, batchID, consumerID uuid.UUID) (*entities.ConsumerAction, error) {
	var m models.ConsumerAction
	err := readDB(ctx, r.db).
		Where("batch_id = ? AND consumer_id = ?", batchID, consumerID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return consumerActionToEntity(&m), nil
}

// ListAcceptedByConsumer lists accepted decisions with their batch, newest first
func (r *ConsumerActionRepository) ListAcceptedByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.ConsumerAction, error) {
	var ms []models.ConsumerAction
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Batch").
		Where("consumer_id = ? AND action = ?", consumerID, string(entities.ActionAccepted)).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entities.ConsumerAction, 0, len(ms))
	for i := range ms {
		out = append(out, consumerActionToEntity(&ms[i]))
	}
	return out, nil
}

// ListShipmentsByDistributor lists consumer acceptances of batches the distributor carried
func (r *ConsumerActionRepository) ListShipmentsByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Shipment, error) {
	var ms []models.ConsumerAction
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ConsumerAction{}).
		Joins("JOIN distributor_batches db ON db.batch_id = consumer_batches.batch_id AND db.action = ?", string(entities.ActionAccepted)).
		Where("db.distributor_id = ? AND consumer_batches.action = ?", distributorID, string(entities.ActionAccepted)).
		Preload("Batch").
		Preload("Consumer").
		Order("consumer_batches.created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Shipment, 0, len(ms))
	for i := range ms {
		s := &entities.Shipment{ConsumerAction: *consumerActionToEntity(&ms[i])}
		if ms[i].Consumer.ID != uuid.Nil {
			s.Consumer = &entities.ShipmentConsumer{}
			if ms[i].Consumer.Email != nil {
				s.Consumer.Email = *ms[i].Consumer.Email
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func consumerActionToEntity(m *models.ConsumerAction) *entities.ConsumerAction {
	a := &entities.ConsumerAction{
		ID:            m.ID,
		BatchID:       m.BatchID,
		ConsumerID:    m.ConsumerID,
		ConsumerEmail: m.ConsumerEmail,
		Action:        entities.ActionType(m.Action),
		CreatedAt:     m.CreatedAt,
	}
	if m.Batch.ID != uuid.Nil {
		a.Batch = batchToEntity(&m.Batch)
	}
	return a
}
