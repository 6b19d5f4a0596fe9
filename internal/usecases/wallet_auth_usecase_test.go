package usecases_test

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/usecases"
	"tracebloom.backend/pkg/crypto"
	"tracebloom.backend/pkg/jwt"
)

type testWallet struct {
	key     string
	address string
}

func newTestWallet(t *testing.T) testWallet {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	return testWallet{
		key:     hex.EncodeToString(ethcrypto.FromECDSA(key)),
		address: strings.ToLower(ethcrypto.PubkeyToAddress(key.PublicKey).Hex()),
	}
}

func (w testWallet) sign(t *testing.T, nonce string) string {
	t.Helper()
	sig, err := crypto.SignPersonalMessage(w.key, crypto.LoginMessage(nonce))
	require.NoError(t, err)
	return sig
}

func newWalletAuthForTest(userRepo *MockUserRepository) (*usecases.WalletAuthUsecase, *jwt.JWTService) {
	jwtSvc := jwt.NewJWTService("test-secret", time.Hour)
	return usecases.NewWalletAuthUsecase(userRepo, jwtSvc), jwtSvc
}

func TestWalletAuth_IssueNonce_BindsWallet(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newWalletAuthForTest(userRepo)
	ctx := context.Background()
	user := &entities.User{ID: uuid.New(), Email: null.StringFrom("a@x.com"), Role: entities.UserRoleFarmer}

	userRepo.On("GetByEmail", ctx, "a@x.com").Return(user, nil).Once()
	userRepo.On("GetByWalletAddress", ctx, "0xabc").Return(nil, domainerrors.ErrNotFound).Once()
	userRepo.On("BindWalletAndNonce", ctx, "a@x.com", "0xabc", mock.MatchedBy(func(n string) bool {
		return len(n) == 32
	})).Return(nil).Once()

	nonce, err := uc.IssueNonce(ctx, &entities.WalletNonceInput{WalletAddress: "0xABC", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Len(t, nonce, 32)
	_, err = hex.DecodeString(nonce)
	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestWalletAuth_IssueNonce_SameOwnerRebinds(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newWalletAuthForTest(userRepo)
	ctx := context.Background()
	user := &entities.User{ID: uuid.New(), Role: entities.UserRoleFarmer}

	userRepo.On("GetByEmail", ctx, "a@x.com").Return(user, nil).Once()
	userRepo.On("GetByWalletAddress", ctx, "0xabc").Return(user, nil).Once()
	userRepo.On("BindWalletAndNonce", ctx, "a@x.com", "0xabc", mock.Anything).Return(nil).Once()

	_, err := uc.IssueNonce(ctx, &entities.WalletNonceInput{WalletAddress: "0xabc", Email: "a@x.com"})
	assert.NoError(t, err)
}

func TestWalletAuth_IssueNonce_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		uc, _ := newWalletAuthForTest(new(MockUserRepository))
		_, err := uc.IssueNonce(ctx, &entities.WalletNonceInput{WalletAddress: "", Email: "a@x.com"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		_, err = uc.IssueNonce(ctx, &entities.WalletNonceInput{WalletAddress: "0xabc", Email: " "})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByEmail", ctx, "nobody@x.com").Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.IssueNonce(ctx, &entities.WalletNonceInput{WalletAddress: "0xabc", Email: "nobody@x.com"})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
		var appErr *domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "User not found. Signup first.", appErr.Message)
	})

	t.Run("wallet owned by another user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByEmail", ctx, "a@x.com").Return(&entities.User{ID: uuid.New()}, nil).Once()
		userRepo.On("GetByWalletAddress", ctx, "0xabc").Return(&entities.User{ID: uuid.New()}, nil).Once()

		_, err := uc.IssueNonce(ctx, &entities.WalletNonceInput{WalletAddress: "0xabc", Email: "a@x.com"})
		assert.ErrorIs(t, err, domainerrors.ErrWalletTaken)
	})

	t.Run("bind race", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByEmail", ctx, "a@x.com").Return(&entities.User{ID: uuid.New()}, nil).Once()
		userRepo.On("GetByWalletAddress", ctx, "0xabc").Return(nil, domainerrors.ErrNotFound).Once()
		userRepo.On("BindWalletAndNonce", ctx, "a@x.com", "0xabc", mock.Anything).Return(domainerrors.ErrWalletTaken).Once()

		_, err := uc.IssueNonce(ctx, &entities.WalletNonceInput{WalletAddress: "0xabc", Email: "a@x.com"})
		assert.ErrorIs(t, err, domainerrors.ErrWalletTaken)
	})
}

func TestWalletAuth_Verify_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, jwtSvc := newWalletAuthForTest(userRepo)
	ctx := context.Background()
	wallet := newTestWallet(t)
	user := &entities.User{ID: uuid.New(), WalletAddress: null.StringFrom(wallet.address), Role: entities.UserRoleConsumer, Nonce: "abc123"}

	userRepo.On("GetByWalletAddress", ctx, wallet.address).Return(user, nil).Once()
	userRepo.On("RotateNonce", ctx, user.ID, "abc123", mock.MatchedBy(func(n string) bool {
		return n != "abc123" && len(n) == 32
	})).Return(nil).Once()

	resp, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{
		WalletAddress: strings.ToUpper(wallet.address[:2]) + wallet.address[2:],
		Signature:     wallet.sign(t, "abc123"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", resp.User.Nonce)

	claims, err := jwtSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, wallet.address, claims.WalletAddress)
	assert.Equal(t, "consumer", claims.Role)
	userRepo.AssertExpectations(t)
}

func TestWalletAuth_Verify_Failures(t *testing.T) {
	ctx := context.Background()
	wallet := newTestWallet(t)
	other := newTestWallet(t)

	t.Run("missing fields", func(t *testing.T) {
		uc, _ := newWalletAuthForTest(new(MockUserRepository))
		_, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{WalletAddress: wallet.address})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByWalletAddress", ctx, wallet.address).Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{WalletAddress: wallet.address, Signature: "0x00"})
		assert.ErrorIs(t, err, domainerrors.ErrNonceMissing)
	})

	t.Run("empty nonce", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByWalletAddress", ctx, wallet.address).Return(&entities.User{ID: uuid.New()}, nil).Once()

		_, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{WalletAddress: wallet.address, Signature: wallet.sign(t, "")})
		assert.ErrorIs(t, err, domainerrors.ErrNonceMissing)
	})

	t.Run("signed by another key", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByWalletAddress", ctx, wallet.address).Return(&entities.User{ID: uuid.New(), Nonce: "n1"}, nil).Once()

		_, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{WalletAddress: wallet.address, Signature: other.sign(t, "n1")})
		assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
	})

	t.Run("stale nonce", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByWalletAddress", ctx, wallet.address).Return(&entities.User{ID: uuid.New(), Nonce: "n2"}, nil).Once()

		_, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{WalletAddress: wallet.address, Signature: wallet.sign(t, "n1")})
		assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
	})

	t.Run("malformed signature", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		userRepo.On("GetByWalletAddress", ctx, wallet.address).Return(&entities.User{ID: uuid.New(), Nonce: "n1"}, nil).Once()

		_, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{WalletAddress: wallet.address, Signature: "0xdeadbeef"})
		assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
	})

	t.Run("lost rotation race", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newWalletAuthForTest(userRepo)
		id := uuid.New()
		userRepo.On("GetByWalletAddress", ctx, wallet.address).Return(&entities.User{ID: id, Nonce: "n1"}, nil).Once()
		userRepo.On("RotateNonce", ctx, id, "n1", mock.Anything).Return(domainerrors.ErrConflict).Once()

		_, err := uc.VerifyWallet(ctx, &entities.WalletVerifyInput{WalletAddress: wallet.address, Signature: wallet.sign(t, "n1")})
		assert.ErrorIs(t, err, domainerrors.ErrSignatureMismatch)
	})
}
