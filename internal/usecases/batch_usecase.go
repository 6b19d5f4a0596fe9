package usecases

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/domain/repositories"
	"tracebloom.backend/pkg/logger"
	"tracebloom.backend/pkg/utils"
)

// BatchUsecase handles the farmer side of batches
type BatchUsecase struct {
	batchRepo   repositories.BatchRepository
	paymentRepo repositories.PaymentRepository
	actors      actorResolver
	uploader    ImageUploader
}

// NewBatchUsecase creates a new batch usecase. uploader may be nil when image
// uploads are disabled.
func NewBatchUsecase(
	batchRepo repositories.BatchRepository,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	uploader ImageUploader,
) *BatchUsecase {
	return &BatchUsecase{
		batchRepo:   batchRepo,
		paymentRepo: paymentRepo,
		actors:      actorResolver{userRepo: userRepo},
		uploader:    uploader,
	}
}

// CreateBatch registers a harvested batch for the calling farmer
func (u *BatchUsecase) CreateBatch(ctx context.Context, callerID uuid.UUID, input *entities.CreateBatchInput) (*entities.Batch, error) {
	switch {
	case strings.TrimSpace(input.WalletAddress) == "":
		return nil, domainerrors.BadRequest("walletAddress required")
	case strings.TrimSpace(input.CropType) == "" || input.Quantity == 0:
		return nil, domainerrors.BadRequest("cropType and quantity required")
	case input.Quantity < 0 || math.IsNaN(input.Quantity) || math.IsInf(input.Quantity, 0):
		return nil, domainerrors.BadRequest("quantity must be positive")
	case strings.TrimSpace(input.FarmerName) == "" || strings.TrimSpace(input.FarmerPhone) == "":
		return nil, domainerrors.BadRequest("farmerName and farmerPhone required")
	}

	farmer, err := u.actors.byWallet(ctx, callerID, input.WalletAddress, entities.UserRoleFarmer, "Farmer not found")
	if err != nil {
		return nil, err
	}

	batch := &entities.Batch{
		ID:           utils.GenerateUUIDv7(),
		FarmerID:     farmer.ID,
		FarmerWallet: farmer.WalletAddress.String,
		FarmerName:   strings.TrimSpace(input.FarmerName),
		FarmerPhone:  strings.TrimSpace(input.FarmerPhone),
		CropType:     strings.TrimSpace(input.CropType),
		Quantity:     input.Quantity,
		Description:  input.Description,
		Location:     input.Location,
		HarvestDate:  input.HarvestDate,
		Status:       entities.BatchStatusHarvested,
	}

	if input.Image != nil {
		if u.uploader == nil {
			return nil, domainerrors.BadRequest("image uploads are disabled")
		}
		url, err := u.uploader.Upload(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		batch.ImageURL = null.StringFrom(url)
	}

	if err := u.batchRepo.Create(ctx, batch); err != nil {
		if batch.ImageURL.Valid {
			// The stored image has no batch pointing at it now.
			logger.Warn(ctx, "Batch insert failed after image upload, image orphaned",
				zap.String("batch_id", batch.ID.String()),
				zap.String("image_url", batch.ImageURL.String),
				zap.Error(err),
			)
		}
		return nil, err
	}

	logger.Info(ctx, "Batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("farmer_id", farmer.ID.String()),
		zap.String("crop_type", batch.CropType),
	)
	return batch, nil
}

// ListFarmerBatches lists the calling farmer's batches, newest first
func (u *BatchUsecase) ListFarmerBatches(ctx context.Context, callerID uuid.UUID, wallet string) ([]*entities.Batch, error) {
	if strings.TrimSpace(wallet) == "" {
		return nil, domainerrors.BadRequest("walletAddress required")
	}
	farmer, err := u.actors.byWallet(ctx, callerID, wallet, entities.UserRoleFarmer, "Farmer not found")
	if err != nil {
		return nil, err
	}
	return u.batchRepo.ListByFarmerWallet(ctx, farmer.WalletAddress.String)
}

// GetBatch returns a single batch
func (u *BatchUsecase) GetBatch(ctx context.Context, id uuid.UUID) (*entities.Batch, error) {
	return getBatch(ctx, u.batchRepo, id)
}

// ListFarmerPayments lists payments owed to the calling farmer's wallet
func (u *BatchUsecase) ListFarmerPayments(ctx context.Context, callerID uuid.UUID, wallet string) ([]*entities.Payment, error) {
	if strings.TrimSpace(wallet) == "" {
		return nil, domainerrors.BadRequest("walletAddress required")
	}
	farmer, err := u.actors.byWallet(ctx, callerID, wallet, entities.UserRoleFarmer, "Farmer not found")
	if err != nil {
		return nil, err
	}
	return u.paymentRepo.ListByFarmerWallet(ctx, farmer.WalletAddress.String)
}
