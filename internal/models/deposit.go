package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit request status enums.
const (
	DepositStatusPending   = "pending"
	DepositStatusApproved  = "approved"
	DepositStatusRejected  = "rejected"
	DepositStatusCompleted = "completed"
)

// DefaultCurrency is used when a deposit or withdrawal omits the currency.
const DefaultCurrency = "WETH"

type DepositRequest struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	TransactionHash string          `json:"transaction_hash"`
	Status          string          `json:"status"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
