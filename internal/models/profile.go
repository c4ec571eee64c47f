package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile roles.
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleAdmin      = "ADMIN"
	RoleUser       = "USER"
)

// KYC status enums.
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

type Profile struct {
	ID                       uuid.UUID       `json:"id"`
	Email                    string          `json:"email"`
	Username                 string          `json:"username"`
	PasswordHash             string          `json:"-"`
	Role                     string          `json:"role"`
	KYCStatus                string          `json:"kyc_status"`
	WalletBalance            decimal.Decimal `json:"wallet_balance"`
	AssignedWallet           *string         `json:"assigned_wallet,omitempty"`
	ExternalWalletConfigured bool            `json:"external_wallet_configured"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}
