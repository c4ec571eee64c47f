package treasury

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultorx/admin-backend/internal/models"
)

const withdrawalColumns = `id, user_id, amount, withdrawal_fee, currency, status, destination_address, nft_item_id, completed_at, created_at, updated_at`

type WithdrawalRepo struct {
	pool *pgxpool.Pool
}

func NewWithdrawalRepo(pool *pgxpool.Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

func (r *WithdrawalRepo) Create(ctx context.Context, w *models.WithdrawalRequest) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO withdrawal_requests (id, user_id, amount, withdrawal_fee, currency, status, destination_address, nft_item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, w.ID, w.UserID, w.Amount, w.WithdrawalFee, w.Currency, w.Status, w.DestinationAddress, w.NFTItemID).Scan(&w.CreatedAt, &w.UpdatedAt)
}

func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	return scanWithdrawal(r.pool.QueryRow(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1
	`, id))
}

// GetForUpdate locks the request row for the duration of the transition.
func (r *WithdrawalRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.WithdrawalRequest, error) {
	return scanWithdrawal(tx.QueryRow(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1 FOR UPDATE
	`, id))
}

func (r *WithdrawalRepo) SetStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE withdrawal_requests SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	return err
}

// MarkCompleted stamps the completion time together with the status write.
func (r *WithdrawalRepo) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE withdrawal_requests SET status = $2, completed_at = now(), updated_at = now() WHERE id = $1
	`, id, models.WithdrawalStatusCompleted)
	return err
}

func (r *WithdrawalRepo) List(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawal_requests ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func scanWithdrawal(row pgx.Row) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.WithdrawalFee, &w.Currency, &w.Status, &w.DestinationAddress, &w.NFTItemID, &w.CompletedAt, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

const depositColumns = `id, user_id, amount, currency, transaction_hash, status, approved_at, processed_at, created_at, updated_at`

type DepositRepo struct {
	pool *pgxpool.Pool
}

func NewDepositRepo(pool *pgxpool.Pool) *DepositRepo {
	return &DepositRepo{pool: pool}
}

// Create inserts the request inside the caller's transaction so the paired
// ledger row commits with it.
func (r *DepositRepo) Create(ctx context.Context, tx pgx.Tx, d *models.DepositRequest) error {
	return tx.QueryRow(ctx, `
		INSERT INTO deposit_requests (id, user_id, amount, currency, transaction_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, d.ID, d.UserID, d.Amount, d.Currency, d.TransactionHash, d.Status).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *DepositRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DepositRequest, error) {
	return scanDeposit(r.pool.QueryRow(ctx, `
		SELECT `+depositColumns+` FROM deposit_requests WHERE id = $1
	`, id))
}

// GetForUpdate locks the request row for the duration of the transition.
func (r *DepositRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.DepositRequest, error) {
	return scanDeposit(tx.QueryRow(ctx, `
		SELECT `+depositColumns+` FROM deposit_requests WHERE id = $1 FOR UPDATE
	`, id))
}

func (r *DepositRepo) SetStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE deposit_requests SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	return err
}

func (r *DepositRepo) MarkApproved(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE deposit_requests SET status = $2, approved_at = now(), updated_at = now() WHERE id = $1
	`, id, models.DepositStatusApproved)
	return err
}

func (r *DepositRepo) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE deposit_requests SET status = $2, processed_at = now(), approved_at = COALESCE(approved_at, now()), updated_at = now() WHERE id = $1
	`, id, models.DepositStatusCompleted)
	return err
}

func (r *DepositRepo) List(ctx context.Context) ([]*models.DepositRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+depositColumns+` FROM deposit_requests ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.DepositRequest
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDeposit(row pgx.Row) (*models.DepositRequest, error) {
	var d models.DepositRequest
	err := row.Scan(&d.ID, &d.UserID, &d.Amount, &d.Currency, &d.TransactionHash, &d.Status, &d.ApprovedAt, &d.ProcessedAt, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
