package repositories

import (
	"context"

	"github.com/google/uuid"
	"tracebloom.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByWalletAddress(ctx context.Context, walletAddress string) (*entities.User, error)
	// BindWalletAndNonce attaches a wallet and overwrites the nonce of the user with the given email
	BindWalletAndNonce(ctx context.Context, email, walletAddress, nonce string) error
	// RotateNonce replaces the nonce only if it still equals expected
	RotateNonce(ctx context.Context, id uuid.UUID, expected, next string) error
}
