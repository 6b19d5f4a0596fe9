package usecases

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/domain/repositories"
	"tracebloom.backend/pkg/crypto"
	"tracebloom.backend/pkg/jwt"
	"tracebloom.backend/pkg/logger"
)

const (
	msgSignupFirst       = "User not found. Signup first."
	msgNonceMissing      = "User not found or nonce missing"
	msgSignatureMismatch = "Signature verification failed"
)

// WalletAuthUsecase runs the wallet challenge/response login
type WalletAuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
}

// NewWalletAuthUsecase creates a new wallet auth usecase
func NewWalletAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService) *WalletAuthUsecase {
	return &WalletAuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// IssueNonce binds the wallet to the user with the given email and returns a fresh
// challenge nonce. Any previously issued nonce stops verifying.
func (u *WalletAuthUsecase) IssueNonce(ctx context.Context, input *entities.WalletNonceInput) (string, error) {
	wallet := normalizeWallet(input.WalletAddress)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if wallet == "" || email == "" {
		return "", domainerrors.BadRequest("walletAddress and email required")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return "", domainerrors.NotFound(msgSignupFirst)
		}
		return "", err
	}

	owner, err := u.userRepo.GetByWalletAddress(ctx, wallet)
	switch {
	case err == nil && owner.ID != user.ID:
		return "", domainerrors.ConflictWith(domainerrors.ErrWalletTaken, "Wallet already linked to another account")
	case err != nil && !errors.Is(err, domainerrors.ErrNotFound):
		return "", err
	}

	nonce, err := crypto.GenerateNonce()
	if err != nil {
		return "", err
	}

	if err := u.userRepo.BindWalletAndNonce(ctx, email, wallet, nonce); err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrWalletTaken):
			return "", domainerrors.ConflictWith(err, "Wallet already linked to another account")
		case errors.Is(err, domainerrors.ErrNotFound):
			return "", domainerrors.NotFound(msgSignupFirst)
		}
		return "", err
	}

	logger.Debug(ctx, "Issued wallet nonce", zap.String("user_id", user.ID.String()))
	return nonce, nil
}

// VerifyWallet checks a signed challenge and mints a wallet session
func (u *WalletAuthUsecase) VerifyWallet(ctx context.Context, input *entities.WalletVerifyInput) (*entities.AuthResponse, error) {
	wallet := normalizeWallet(input.WalletAddress)
	signature := strings.TrimSpace(input.Signature)
	if wallet == "" || signature == "" {
		return nil, domainerrors.BadRequest("walletAddress and signature required")
	}

	user, err := u.userRepo.GetByWalletAddress(ctx, wallet)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundWith(domainerrors.ErrNonceMissing, msgNonceMissing)
		}
		return nil, err
	}
	if user.Nonce == "" {
		return nil, domainerrors.NotFoundWith(domainerrors.ErrNonceMissing, msgNonceMissing)
	}

	ok, err := crypto.VerifyPersonalSignature(wallet, crypto.LoginMessage(user.Nonce), signature)
	if err != nil || !ok {
		logger.Warn(ctx, "Wallet signature rejected", zap.String("wallet", wallet), zap.Error(err))
		return nil, domainerrors.UnauthorizedWith(domainerrors.ErrSignatureMismatch, msgSignatureMismatch)
	}

	next, err := crypto.GenerateNonce()
	if err != nil {
		return nil, err
	}
	if err := u.userRepo.RotateNonce(ctx, user.ID, user.Nonce, next); err != nil {
		if errors.Is(err, domainerrors.ErrConflict) {
			// A concurrent verify already consumed this nonce
			return nil, domainerrors.UnauthorizedWith(domainerrors.ErrSignatureMismatch, msgSignatureMismatch)
		}
		return nil, err
	}
	user.Nonce = next

	token, err := u.jwtService.GenerateToken(jwt.Subject{
		UserID:        user.ID,
		WalletAddress: wallet,
		Role:          string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{Token: token, User: user}, nil
}

func normalizeWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
