package usecases_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

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

func newAuthUsecaseForTest(userRepo *MockUserRepository) (*usecases.AuthUsecase, *jwt.JWTService) {
	jwtSvc := jwt.NewJWTService("test-secret", time.Hour)
	return usecases.NewAuthUsecase(userRepo, jwtSvc), jwtSvc
}

func TestAuthUsecase_Signup_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, jwtSvc := newAuthUsecaseForTest(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "new@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email.String == "new@mail.com" &&
			u.Role == entities.UserRoleFarmer &&
			u.Name.String == "Ravi" &&
			u.ID != uuid.Nil &&
			crypto.CheckPassword("Password123!", u.PasswordHash)
	})).Return(nil).Once()

	resp, err := uc.Signup(ctx, &entities.SignupInput{
		Email:    " New@Mail.com ",
		Password: "Password123!",
		Role:     entities.UserRoleFarmer,
		Name:     "Ravi",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := jwtSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "new@mail.com", claims.Email)
	assert.Equal(t, "farmer", claims.Role)
	userRepo.AssertExpectations(t)
}

func TestAuthUsecase_Signup_Duplicate(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "exists@mail.com").Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := uc.Signup(ctx, &entities.SignupInput{Email: "exists@mail.com", Password: "x", Role: entities.UserRoleConsumer})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	var appErr *domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "User already exists", appErr.Message)
}

func TestAuthUsecase_Signup_CreateRace(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "race@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	userRepo.On("Create", ctx, mock.Anything).Return(domainerrors.ErrAlreadyExists).Once()

	_, err := uc.Signup(ctx, &entities.SignupInput{Email: "race@mail.com", Password: "x", Role: entities.UserRoleConsumer})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthUsecase_Signup_InvalidInput(t *testing.T) {
	uc, _ := newAuthUsecaseForTest(new(MockUserRepository))

	_, err := uc.Signup(context.Background(), &entities.SignupInput{Email: "a@mail.com", Password: "x", Role: "admin"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.Signup(context.Background(), &entities.SignupInput{Email: "", Password: "x", Role: entities.UserRoleFarmer})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAuthUsecase_Login(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, jwtSvc := newAuthUsecaseForTest(userRepo)
	ctx := context.Background()

	hash, err := crypto.HashPassword("Password123!")
	require.NoError(t, err)
	user := &entities.User{ID: uuid.New(), Email: null.StringFrom("user@mail.com"), PasswordHash: hash, Role: entities.UserRoleDistributor}

	userRepo.On("GetByEmail", ctx, "user@mail.com").Return(user, nil)
	userRepo.On("GetByEmail", ctx, "missing@mail.com").Return(nil, domainerrors.ErrNotFound)

	resp, err := uc.Login(ctx, &entities.LoginInput{Email: "user@mail.com", Password: "Password123!"})
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "distributor", claims.Role)

	_, err = uc.Login(ctx, &entities.LoginInput{Email: "user@mail.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &entities.LoginInput{Email: "missing@mail.com", Password: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthUsecase_Login_WalletOnlyUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "wallet@mail.com").Return(&entities.User{ID: uuid.New(), Role: entities.UserRoleFarmer}, nil)

	_, err := uc.Login(ctx, &entities.LoginInput{Email: "wallet@mail.com", Password: ""})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthUsecase_Login_RepoError(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "user@mail.com").Return(nil, errors.New("db down"))

	_, err := uc.Login(ctx, &entities.LoginInput{Email: "user@mail.com", Password: "x"})
	assert.EqualError(t, err, "db down")
}

func TestAuthUsecase_GetUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo)
	ctx := context.Background()
	id := uuid.New()

	userRepo.On("GetByID", ctx, id).Return(&entities.User{ID: id}, nil).Once()
	userRepo.On("GetByEmail", ctx, "found@mail.com").Return(&entities.User{ID: id}, nil).Once()
	userRepo.On("GetByEmail", ctx, "gone@mail.com").Return(nil, domainerrors.ErrNotFound).Once()

	user, err := uc.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	user, err = uc.GetUserByEmail(ctx, "Found@mail.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = uc.GetUserByEmail(ctx, "gone@mail.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
