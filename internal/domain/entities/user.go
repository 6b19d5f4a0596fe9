package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents the supply-chain role of a user
type UserRole string

const (
	UserRoleFarmer      UserRole = "farmer"
	UserRoleDistributor UserRole = "distributor"
	UserRoleConsumer    UserRole = "consumer"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleFarmer, UserRoleDistributor, UserRoleConsumer:
		return true
	}
	return false
}

// User represents a user entity
type User struct {
	ID            uuid.UUID   `json:"id"`
	Email         null.String `json:"email"`
	Name          null.String `json:"name"`
	WalletAddress null.String `json:"walletAddress"`
	PasswordHash  string      `json:"-"`
	Role          UserRole    `json:"role"`
	Nonce         string      `json:"-"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// SignupInput represents input for password signup
type SignupInput struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"role" binding:"required,oneof=farmer distributor consumer"`
	Name     string   `json:"name" binding:"omitempty,max=100"`
}

// LoginInput represents input for password login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// WalletNonceInput requests a login challenge for a wallet
type WalletNonceInput struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Email         string `json:"email" binding:"required"`
}

// WalletVerifyInput submits a signed login challenge
type WalletVerifyInput struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
