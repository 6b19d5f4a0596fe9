package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/interfaces/http/response"
	"tracebloom.backend/internal/usecases"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase   *usecases.AuthUsecase
	walletUsecase *usecases.WalletAuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase, walletUsecase *usecases.WalletAuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase:   authUsecase,
		walletUsecase: walletUsecase,
	}
}

// Signup handles password registration
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var input entities.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Signup(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// Login handles password login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials, "Invalid email or password", err))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// WalletNonce issues a login challenge for a wallet
// POST /api/auth/wallet/nonce
func (h *AuthHandler) WalletNonce(c *gin.Context) {
	var input entities.WalletNonceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("walletAddress and email required"))
		return
	}

	nonce, err := h.walletUsecase.IssueNonce(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"nonce": nonce})
}

// WalletVerify exchanges a signed challenge for a session
// POST /api/auth/wallet/verify
func (h *AuthHandler) WalletVerify(c *gin.Context) {
	var input entities.WalletVerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("walletAddress and signature required"))
		return
	}

	authResponse, err := h.walletUsecase.VerifyWallet(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// Me returns the current user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// GetUserByEmail looks up a user's public profile
// GET /api/users/email/:email
func (h *AuthHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.authUsecase.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
