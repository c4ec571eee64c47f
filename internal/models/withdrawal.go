package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdrawal request status enums. Only the transition into completed carries
// side effects (balance debit + ledger append).
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusVerified   = "verified"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusFailed     = "failed"
)

type WithdrawalRequest struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	Amount             decimal.Decimal `json:"amount"`
	WithdrawalFee      decimal.Decimal `json:"withdrawal_fee"`
	Currency           string          `json:"currency"`
	Status             string          `json:"status"`
	DestinationAddress string          `json:"destination_address"`
	NFTItemID          *uuid.UUID      `json:"nft_item_id,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TotalDeduction is the amount debited from the owner's balance when the
// request completes: requested amount plus the platform withdrawal fee.
func (w *WithdrawalRequest) TotalDeduction() decimal.Decimal {
	return w.Amount.Add(w.WithdrawalFee)
}
