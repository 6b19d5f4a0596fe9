package usecases_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"tracebloom.backend/internal/domain/entities"
	"tracebloom.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*entities.User, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) BindWalletAndNonce(ctx context.Context, email, walletAddress, nonce string) error {
	args := m.Called(ctx, email, walletAddress, nonce)
	return args.Error(0)
}

func (m *MockUserRepository) RotateNonce(ctx context.Context, id uuid.UUID, expected, next string) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}

// Mock BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *entities.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListByFarmerWallet(ctx context.Context, wallet string) ([]*entities.Batch, error) {
	args := m.Called(ctx, wallet)
	return args.Get(0).([]*entities.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListVisibleToDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Batch, error) {
	args := m.Called(ctx, distributorID)
	return args.Get(0).([]*entities.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListVisibleToConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.Batch, error) {
	args := m.Called(ctx, consumerID)
	return args.Get(0).([]*entities.Batch), args.Error(1)
}

func (m *MockBatchRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.BatchStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

// Mock DistributorActionRepository
type MockDistributorActionRepository struct {
	mock.Mock
}

func (m *MockDistributorActionRepository) Create(ctx context.Context, action *entities.DistributorAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockDistributorActionRepository) GetAccepted(ctx context.Context, batchID uuid.UUID) (*entities.DistributorAction, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DistributorAction), args.Error(1)
}

// Mock ConsumerActionRepository
type MockConsumerActionRepository struct {
	mock.Mock
}

func (m *MockConsumerActionRepository) Create(ctx context.Context, action *entities.ConsumerAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockConsumerActionRepository) Get(ctx context.Context, batchID, consumerID uuid.UUID) (*entities.ConsumerAction, error) {
	args := m.Called(ctx, batchID, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ConsumerAction), args.Error(1)
}

func (m *MockConsumerActionRepository) ListAcceptedByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.ConsumerAction, error) {
	args := m.Called(ctx, consumerID)
	return args.Get(0).([]*entities.ConsumerAction), args.Error(1)
}

func (m *MockConsumerActionRepository) ListShipmentsByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Shipment, error) {
	args := m.Called(ctx, distributorID)
	return args.Get(0).([]*entities.Shipment), args.Error(1)
}

// Mock PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByFarmerWallet(ctx context.Context, wallet string) ([]*entities.Payment, error) {
	args := m.Called(ctx, wallet)
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*entities.Payment, error) {
	args := m.Called(ctx, distributorID)
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

// Mock ConsumerPaymentRepository
type MockConsumerPaymentRepository struct {
	mock.Mock
}

func (m *MockConsumerPaymentRepository) Create(ctx context.Context, payment *entities.ConsumerPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockConsumerPaymentRepository) ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*entities.ConsumerPayment, error) {
	args := m.Called(ctx, consumerID)
	return args.Get(0).([]*entities.ConsumerPayment), args.Error(1)
}

// Mock ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByBatch(ctx context.Context, batchID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Review, int64, error) {
	args := m.Called(ctx, batchID, pagination)
	return args.Get(0).([]*entities.Review), args.Get(1).(int64), args.Error(2)
}

// Mock ImageUploader
type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) Upload(ctx context.Context, upload *entities.ImageUpload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

// Mock DecisionRecorder
type MockDecisionRecorder struct {
	mock.Mock
}

func (m *MockDecisionRecorder) ObserveDecision(role, action, outcome string) {
	m.Called(role, action, outcome)
}
