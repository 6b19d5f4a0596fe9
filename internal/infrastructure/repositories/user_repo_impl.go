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

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:            user.ID,
		Email:         user.Email.Ptr(),
		Name:          user.Name.Ptr(),
		WalletAddress: lowerPtr(user.WalletAddress),
		Role:          string(user.Role),
		Nonce:         user.Nonce,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
	if user.PasswordHash != "" {
		m.PasswordHash = &user.PasswordHash
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByWalletAddress gets a user by wallet, case-insensitively
func (r *UserRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*entities.User, error) {
	return r.first(ctx, "wallet_address = ?", strings.ToLower(walletAddress))
}

// BindWalletAndNonce sets wallet and nonce of the user with the given email in one update
func (r *UserRepository) BindWalletAndNonce(ctx context.Context, email, walletAddress, nonce string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"wallet_address": strings.ToLower(walletAddress),
			"nonce":          nonce,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrWalletTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// RotateNonce swaps the nonce from expected to next. ErrConflict means another
// caller already consumed expected.
func (r *UserRepository) RotateNonce(ctx context.Context, id uuid.UUID, expected, next string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND nonce = ?", id, expected).
		Updates(map[string]interface{}{
			"nonce":      next,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	var m models.User
	if err := readDB(ctx, r.db).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

func userToEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:            m.ID,
		Email:         null.StringFromPtr(m.Email),
		Name:          null.StringFromPtr(m.Name),
		WalletAddress: null.StringFromPtr(m.WalletAddress),
		Role:          entities.UserRole(m.Role),
		Nonce:         m.Nonce,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.PasswordHash != nil {
		u.PasswordHash = *m.PasswordHash
	}
	return u
}

func lowerPtr(s null.String) *string {
	if !s.Valid {
		return nil
	}
	v := strings.ToLower(s.String)
	return &v
}
