package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"tracebloom.backend/internal/domain/entities"
	"tracebloom.backend/internal/infrastructure/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, models.AutoMigrate(db), "migrate")
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role entities.UserRole, email, wallet string) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:   uuid.New(),
		Role: role,
	}
	if email != "" {
		u.Email = null.StringFrom(email)
	}
	if wallet != "" {
		u.WalletAddress = null.StringFrom(wallet)
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedBatch(t *testing.T, db *gorm.DB, farmer *entities.User, status entities.BatchStatus) *entities.Batch {
	t.Helper()
	b := &entities.Batch{
		ID:           uuid.New(),
		FarmerID:     farmer.ID,
		FarmerWallet: farmer.WalletAddress.String,
		FarmerName:   "Ravi",
		FarmerPhone:  "+91-9000000000",
		CropType:     "Tomato",
		Quantity:     12.5,
		Location:     null.StringFrom("Nashik"),
		Status:       status,
	}
	require.NoError(t, NewBatchRepository(db).Create(context.Background(), b))
	return b
}
