package usecases_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/usecases"
)

func validBatchInput() *entities.CreateBatchInput {
	return &entities.CreateBatchInput{
		WalletAddress: "0xFarmer",
		CropType:      " Wheat ",
		Quantity:      20,
		FarmerName:    "Asha",
		FarmerPhone:   "555",
	}
}

func TestBatchUsecase_CreateBatch_WithImage(t *testing.T) {
	batches, users, payments, uploader := new(MockBatchRepository), new(MockUserRepository), new(MockPaymentRepository), new(MockImageUploader)
	uc := usecases.NewBatchUsecase(batches, users, payments, uploader)
	ctx := context.Background()
	farmer := &entities.User{ID: uuid.New(), WalletAddress: null.StringFrom("0xfarmer"), Role: entities.UserRoleFarmer}

	input := validBatchInput()
	input.Image = &entities.ImageUpload{Filename: "wheat.png", Content: bytes.NewReader([]byte("img"))}

	users.On("GetByWalletAddress", ctx, "0xfarmer").Return(farmer, nil)
	uploader.On("Upload", ctx, input.Image).Return("https://img.example/wheat.png", nil)
	batches.On("Create", ctx, mock.MatchedBy(func(b *entities.Batch) bool {
		return b.Status == entities.BatchStatusHarvested &&
			b.FarmerID == farmer.ID &&
			b.FarmerWallet == "0xfarmer" &&
			b.CropType == "Wheat" &&
			b.ImageURL.String == "https://img.example/wheat.png"
	})).Return(nil)

	batch, err := uc.CreateBatch(ctx, farmer.ID, input)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, batch.ID)
	batches.AssertExpectations(t)
}

func TestBatchUsecase_CreateBatch_Validation(t *testing.T) {
	uc := usecases.NewBatchUsecase(new(MockBatchRepository), new(MockUserRepository), new(MockPaymentRepository), nil)
	ctx := context.Background()

	cases := map[string]func(*entities.CreateBatchInput){
		"wallet":   func(in *entities.CreateBatchInput) { in.WalletAddress = "" },
		"crop":     func(in *entities.CreateBatchInput) { in.CropType = "" },
		"quantity": func(in *entities.CreateBatchInput) { in.Quantity = 0 },
		"negative": func(in *entities.CreateBatchInput) { in.Quantity = -1 },
		"nan":      func(in *entities.CreateBatchInput) { in.Quantity = math.NaN() },
		"inf":      func(in *entities.CreateBatchInput) { in.Quantity = math.Inf(1) },
		"neg inf":  func(in *entities.CreateBatchInput) { in.Quantity = math.Inf(-1) },
		"phone":    func(in *entities.CreateBatchInput) { in.FarmerPhone = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validBatchInput()
			mutate(input)
			_, err := uc.CreateBatch(ctx, uuid.New(), input)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		})
	}
}

func TestBatchUsecase_CreateBatch_UploadErrors(t *testing.T) {
	ctx := context.Background()
	farmer := &entities.User{ID: uuid.New(), WalletAddress: null.StringFrom("0xfarmer"), Role: entities.UserRoleFarmer}

	t.Run("uploads disabled", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByWalletAddress", ctx, "0xfarmer").Return(farmer, nil)
		uc := usecases.NewBatchUsecase(new(MockBatchRepository), users, new(MockPaymentRepository), nil)

		input := validBatchInput()
		input.Image = &entities.ImageUpload{Filename: "a.png"}
		_, err := uc.CreateBatch(ctx, farmer.ID, input)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("store failure", func(t *testing.T) {
		users, batches, uploader := new(MockUserRepository), new(MockBatchRepository), new(MockImageUploader)
		users.On("GetByWalletAddress", ctx, "0xfarmer").Return(farmer, nil)
		uploader.On("Upload", ctx, mock.Anything).Return("", errors.New("cloudflare down"))
		uc := usecases.NewBatchUsecase(batches, users, new(MockPaymentRepository), uploader)

		input := validBatchInput()
		input.Image = &entities.ImageUpload{Filename: "a.png"}
		_, err := uc.CreateBatch(ctx, farmer.ID, input)
		assert.EqualError(t, err, "cloudflare down")
		batches.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert failure after upload", func(t *testing.T) {
		users, batches, uploader := new(MockUserRepository), new(MockBatchRepository), new(MockImageUploader)
		users.On("GetByWalletAddress", ctx, "0xfarmer").Return(farmer, nil)
		uploader.On("Upload", ctx, mock.Anything).Return("https://img.example/a.png", nil)
		batches.On("Create", ctx, mock.Anything).Return(errors.New("db down"))
		uc := usecases.NewBatchUsecase(batches, users, new(MockPaymentRepository), uploader)

		input := validBatchInput()
		input.Image = &entities.ImageUpload{Filename: "a.png"}
		batch, err := uc.CreateBatch(ctx, farmer.ID, input)
		assert.EqualError(t, err, "db down")
		assert.Nil(t, batch)
		uploader.AssertExpectations(t)
	})
}

func TestBatchUsecase_ListsAndLookup(t *testing.T) {
	batches, users, payments := new(MockBatchRepository), new(MockUserRepository), new(MockPaymentRepository)
	uc := usecases.NewBatchUsecase(batches, users, payments, nil)
	ctx := context.Background()
	farmer := &entities.User{ID: uuid.New(), WalletAddress: null.StringFrom("0xfarmer"), Role: entities.UserRoleFarmer}
	id := uuid.New()

	users.On("GetByWalletAddress", ctx, "0xfarmer").Return(farmer, nil)
	batches.On("ListByFarmerWallet", ctx, "0xfarmer").Return([]*entities.Batch{{ID: id}}, nil)
	payments.On("ListByFarmerWallet", ctx, "0xfarmer").Return([]*entities.Payment{}, nil)
	batches.On("GetByID", ctx, id).Return(&entities.Batch{ID: id}, nil)
	batches.On("GetByID", ctx, mock.Anything).Return(nil, domainerrors.ErrNotFound)

	list, err := uc.ListFarmerBatches(ctx, farmer.ID, "0xFARMER")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ListFarmerBatches(ctx, farmer.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	pays, err := uc.ListFarmerPayments(ctx, farmer.ID, "0xfarmer")
	require.NoError(t, err)
	assert.Empty(t, pays)

	got, err := uc.GetBatch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = uc.GetBatch(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
