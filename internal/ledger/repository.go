package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

var (
	errInsufficientBalance = errors.New("insufficient balance")
	errAccountNotFound     = errors.New("account not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Credit adds amount to the profile's wallet balance and returns the new
// balance. Runs inside the caller's transaction.
func (r *Repository) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE profiles
		SET wallet_balance = wallet_balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING wallet_balance
	`, amount, accountID).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, errAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Debit subtracts amount from the profile's wallet balance via an atomic
// conditional update: the row is only touched when the balance covers the
// amount, so two concurrent debits can never both read the same stale value.
// Runs inside the caller's transaction.
func (r *Repository) Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE profiles
		SET wallet_balance = wallet_balance - $1, updated_at = now()
		WHERE id = $2 AND wallet_balance >= $1
		RETURNING wallet_balance
	`, amount, accountID).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing account from an uncovered debit.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, accountID).Scan(&exists); err != nil {
			return decimal.Zero, err
		}
		if !exists {
			return decimal.Zero, errAccountNotFound
		}
		return decimal.Zero, errInsufficientBalance
	}
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// AppendTransaction inserts an immutable ledger row inside the caller's
// transaction.
func (r *Repository) AppendTransaction(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	return tx.QueryRow(ctx, `
		INSERT INTO transactions (id, transaction_hash, nft_item_id, from_user_id, to_user_id, transaction_type, price, currency, status, gas_fee, platform_fee, royalty_fee, description, from_wallet, to_wallet, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`, t.ID, t.TransactionHash, t.NFTItemID, t.FromUserID, t.ToUserID, t.TransactionType, t.Price, t.Currency, t.Status, t.GasFee, t.PlatformFee, t.RoyaltyFee, t.Description, t.FromWallet, t.ToWallet, t.ConfirmedAt).Scan(&t.CreatedAt)
}

// MarkTransactionByHash sets the status of the ledger row identified by its
// chain hash. Completed rows also get a confirmation timestamp.
func (r *Repository) MarkTransactionByHash(ctx context.Context, tx pgx.Tx, hash, status string) (int64, error) {
	query := `UPDATE transactions SET status = $2 WHERE transaction_hash = $1`
	if status == models.TransactionStatusCompleted {
		query = `UPDATE transactions SET status = $2, confirmed_at = now() WHERE transaction_hash = $1`
	}
	result, err := tx.Exec(ctx, query, hash, status)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
