package treasury

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ApproveDeposit applies an administrator-driven status transition to a
// deposit request. Completing the request credits the owner and confirms the
// transaction row that was created alongside the request; rejecting it marks
// that row failed. Approval is a timestamp-only checkpoint.
func (s *Service) ApproveDeposit(ctx context.Context, requestID uuid.UUID, prevStatus, newStatus string) (*TransitionResult, error) {
	if !validDepositStatuses[newStatus] {
		return nil, ErrInvalidTransitionPayload
	}
	if newStatus == models.DepositStatusCompleted && prevStatus == models.DepositStatusCompleted {
		return &TransitionResult{Notice: successNotice("Deposit already completed; no changes applied")}, nil
	}
	// Rejection is reachable from any state except completed.
	if newStatus == models.DepositStatusRejected && prevStatus == models.DepositStatusCompleted {
		return nil, ErrInvalidTransitionPayload
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	d, err := s.Deposits.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	// The locked row decides, not the caller's snapshot: once the row reads
	// completed it is terminal, and a racing second completion must not
	// credit again.
	if d.Status == models.DepositStatusCompleted {
		if newStatus == models.DepositStatusCompleted {
			return &TransitionResult{Notice: successNotice("Deposit already completed; no changes applied")}, nil
		}
		return nil, ErrInvalidTransitionPayload
	}

	result := &TransitionResult{}
	switch newStatus {
	case models.DepositStatusCompleted:
		if !d.Amount.IsPositive() || d.TransactionHash == "" {
			return nil, ErrInvalidTransitionPayload
		}
		newBalance, err := s.Ledger.Credit(ctx, tx, d.UserID, d.Amount)
		if err != nil {
			return nil, err
		}
		result.NewBalance = &newBalance
		// The pending transaction row was created with the request; confirm
		// it rather than appending a second one.
		if _, err := s.Ledger.MarkTransactionByHash(ctx, tx, d.TransactionHash, models.TransactionStatusCompleted); err != nil {
			return nil, err
		}
		if err := s.Deposits.MarkCompleted(ctx, tx, requestID); err != nil {
			return nil, err
		}
		result.Notice = successNotice("Deposit completed successfully. User balance credited with %s %s", d.Amount, currencyOrDefault(d.Currency))

	case models.DepositStatusApproved:
		if err := s.Deposits.MarkApproved(ctx, tx, requestID); err != nil {
			return nil, err
		}
		result.Notice = successNotice("Deposit request approved and ready for processing")

	case models.DepositStatusRejected:
		if d.TransactionHash != "" {
			if _, err := s.Ledger.MarkTransactionByHash(ctx, tx, d.TransactionHash, models.TransactionStatusFailed); err != nil {
				return nil, err
			}
		}
		if err := s.Deposits.SetStatus(ctx, tx, requestID, newStatus); err != nil {
			return nil, err
		}
		result.Notice = successNotice("Deposit request rejected")

	default:
		if err := s.Deposits.SetStatus(ctx, tx, requestID, newStatus); err != nil {
			return nil, err
		}
		result.Notice = successNotice("Deposit request moved to %s", newStatus)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateDeposit registers a new pending deposit request together with its
// pending transaction row, derived from the request's hash, amount, and
// currency, so the completed transition has a ledger row to confirm.
func (s *Service) CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, transactionHash string) (*models.DepositRequest, error) {
	if !amount.IsPositive() || transactionHash == "" {
		return nil, ErrInvalidTransitionPayload
	}
	currency = currencyOrDefault(currency)

	d := &models.DepositRequest{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          amount,
		Currency:        currency,
		TransactionHash: transactionHash,
		Status:          models.DepositStatusPending,
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.Deposits.Create(ctx, tx, d); err != nil {
		return nil, err
	}
	if err := s.Ledger.AppendTransaction(ctx, tx, &models.Transaction{
		ID:              uuid.New(),
		TransactionHash: &d.TransactionHash,
		FromUserID:      userID,
		ToUserID:        userID,
		TransactionType: models.TransactionTypeDeposit,
		Price:           amount,
		Currency:        currency,
		Status:          models.TransactionStatusPending,
		Description:     amount.String() + " " + currency + " Deposit",
		FromWallet:      "External Source",
		ToWallet:        "Platform Wallet",
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return models.DefaultCurrency
	}
	return currency
}
