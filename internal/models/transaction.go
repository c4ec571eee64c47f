package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction type enums.
const (
	TransactionTypeMint       = "mint"
	TransactionTypeSale       = "sale"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePurchase   = "purchase"
)

// Transaction status enums.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusConfirmed = "confirmed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCompleted = "completed"
)

// Transaction is an append-only ledger entry. Rows are created by the
// deposit/withdrawal workflows and never deleted.
type Transaction struct {
	ID              uuid.UUID        `json:"id"`
	TransactionHash *string          `json:"transaction_hash,omitempty"`
	NFTItemID       *uuid.UUID       `json:"nft_item_id,omitempty"`
	FromUserID      uuid.UUID        `json:"from_user_id"`
	ToUserID        uuid.UUID        `json:"to_user_id"`
	TransactionType string           `json:"transaction_type"`
	Price           decimal.Decimal  `json:"price"`
	Currency        string           `json:"currency"`
	Status          string           `json:"status"`
	GasFee          *decimal.Decimal `json:"gas_fee,omitempty"`
	PlatformFee     *decimal.Decimal `json:"platform_fee,omitempty"`
	RoyaltyFee      *decimal.Decimal `json:"royalty_fee,omitempty"`
	Description     string           `json:"description,omitempty"`
	FromWallet      string           `json:"from_wallet,omitempty"`
	ToWallet        string           `json:"to_wallet,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	ConfirmedAt     *time.Time       `json:"confirmed_at,omitempty"`
}
