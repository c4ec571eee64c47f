package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ApproveWithdrawal applies an administrator-driven status transition to a
// withdrawal request. Only the transition into completed moves funds: the
// owner is debited amount+fee and a withdrawal row is appended to the
// transactions ledger. Re-entering completed from completed is a no-op, so
// the debit fires at most once per request.
func (s *Service) ApproveWithdrawal(ctx context.Context, requestID uuid.UUID, prevStatus, newStatus string) (*TransitionResult, error) {
	if !validWithdrawalStatuses[newStatus] {
		return nil, ErrInvalidTransitionPayload
	}
	if newStatus == models.WithdrawalStatusCompleted && prevStatus == models.WithdrawalStatusCompleted {
		return &TransitionResult{Notice: successNotice("Withdrawal already completed; no changes applied")}, nil
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	w, err := s.Withdrawals.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	// The locked row decides, not the caller's snapshot: a request that
	// already reads completed is terminal. A concurrent admin who raced the
	// first completion lands here instead of debiting a second time.
	if w.Status == models.WithdrawalStatusCompleted {
		if newStatus == models.WithdrawalStatusCompleted {
			return &TransitionResult{Notice: successNotice("Withdrawal already completed; no changes applied")}, nil
		}
		return nil, ErrInvalidTransitionPayload
	}

	result := &TransitionResult{}
	switch newStatus {
	case models.WithdrawalStatusCompleted:
		total := w.TotalDeduction()
		if total.IsNegative() {
			return nil, ErrInvalidTransitionPayload
		}
		if total.IsPositive() {
			newBalance, err := s.Ledger.Debit(ctx, tx, w.UserID, total)
			if err != nil {
				return nil, err
			}
			result.NewBalance = &newBalance
			if err := s.Ledger.AppendTransaction(ctx, tx, withdrawalTransaction(w)); err != nil {
				return nil, err
			}
		}
		if err := s.Withdrawals.MarkCompleted(ctx, tx, requestID); err != nil {
			return nil, err
		}
		result.Notice = successNotice("Withdrawal completed successfully. User balance deducted by %s", total)

	case models.WithdrawalStatusVerified:
		// Administrative checkpoint: no balance effect.
		if err := s.Withdrawals.SetStatus(ctx, tx, requestID, newStatus); err != nil {
			return nil, err
		}
		result.Notice = successNotice("Withdrawal request verified and ready for processing")

	default:
		if err := s.Withdrawals.SetStatus(ctx, tx, requestID, newStatus); err != nil {
			return nil, err
		}
		result.Notice = successNotice("Withdrawal request moved to %s", newStatus)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// withdrawalTransaction builds the ledger row recorded when a withdrawal
// completes: price is the requested amount, the platform fee is the
// withdrawal fee.
func withdrawalTransaction(w *models.WithdrawalRequest) *models.Transaction {
	currency := w.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	description := "Funds Withdrawal"
	if w.NFTItemID != nil {
		description = "NFT Withdrawal"
	}
	fee := w.WithdrawalFee
	now := time.Now()
	return &models.Transaction{
		ID:              uuid.New(),
		NFTItemID:       w.NFTItemID,
		FromUserID:      w.UserID,
		ToUserID:        w.UserID,
		TransactionType: models.TransactionTypeWithdrawal,
		Price:           w.Amount,
		Currency:        currency,
		Status:          models.TransactionStatusCompleted,
		PlatformFee:     &fee,
		Description:     description,
		FromWallet:      "User Wallet",
		ToWallet:        "External Address",
		ConfirmedAt:     &now,
	}
}
