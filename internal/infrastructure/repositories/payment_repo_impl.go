package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tracebloom.backend/internal/domain/entities"
	"tracebloom.backend/internal/infrastructure/models"
)

// PaymentRepository implements the farmer payment ledger
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create appends a payment row
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	m := &models.Payment{
		ID:            payment.ID,
		BatchID:       payment.BatchID,
		DistributorID: payment.DistributorID,
		FarmerWallet:  strings.ToLower(payment.FarmerWallet),
		Amount:        payment.Amount,
		Status:        string(payment.Status),
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Batch").Create(m).Error; err != nil {
		return err
	}
	payment.CreatedAt = m.CreatedAt
	return nil
}

// ListByFarmerWallet lists payments owed to a farmer, newest first
func (r *PaymentRepository) ListByFarmerWallet(ctx context.Context, wallet string) ([]*entities.Payment, error) {
	return r.list(ctx, "farmer_wallet = ?", strings.ToLower(wallet))
}

// ListByDistributor lists payments a distributor owes, newest first
func (r *PaymentRepository) ListByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Payment, error) {
	return r.list(ctx, "distributor_id = ?", distributorID)
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entities.Payment, error) {
	var ms []models.Payment
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Batch").
		Where(query, args...).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Payment, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		p := &entities.Payment{
			ID:            m.ID,
			BatchID:       m.BatchID,
			DistributorID: m.DistributorID,
			FarmerWallet:  m.FarmerWallet,
			Amount:        m.Amount,
			Status:        entities.PaymentStatus(m.Status),
			CreatedAt:     m.CreatedAt,
		}
		if m.Batch.ID != uuid.Nil {
			p.Batch = batchToEntity(&m.Batch)
		}
		out = append(out, p)
	}
	return out, nil
}

// ConsumerPaymentRepository implements the consumer payment ledger
type ConsumerPaymentRepository struct {
	db *gorm.DB
}

// NewConsumerPaymentRepository creates a new consumer payment repository
func NewConsumerPaymentRepository(db *gorm.DB) *ConsumerPaymentRepository {
	return &ConsumerPaymentRepository{db: db}
}

// Create appends a consumer payment row
func (r *ConsumerPaymentRepository) Create(ctx context.Context, payment *entities.ConsumerPayment) error {
	m := &models.ConsumerPayment{
		ID:            payment.ID,
		BatchID:       payment.BatchID,
		ConsumerID:    payment.ConsumerID,
		DistributorID: payment.DistributorID,
		Amount:        payment.Amount,
		Status:        string(payment.Status),
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Batch", "Distributor").Create(m).Error; err != nil {
		return err
	}
	payment.CreatedAt = m.CreatedAt
	return nil
}

// ListByConsumer lists a consumer's payments with batch and distributor, newest first
func (r *ConsumerPaymentRepository) ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.ConsumerPayment, error) {
	var ms []models.ConsumerPayment
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Batch").
		Preload("Distributor").
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entities.ConsumerPayment, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		p := &entities.ConsumerPayment{
			ID:            m.ID,
			BatchID:       m.BatchID,
			ConsumerID:    m.ConsumerID,
			DistributorID: m.DistributorID,
			Amount:        m.Amount,
			Status:        entities.PaymentStatus(m.Status),
			CreatedAt:     m.CreatedAt,
		}
		if m.Batch.ID != uuid.Nil {
			p.Batch = batchToEntity(&m.Batch)
		}
		if m.Distributor.ID != uuid.Nil {
			p.Distributor = userToEntity(&m.Distributor)
		}
		out = append(out, p)
	}
	return out, nil
}
