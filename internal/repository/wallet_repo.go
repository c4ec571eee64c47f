package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultorx/admin-backend/internal/models"
)

const walletColumns = `id, address, wallet_index, status, assigned_at, created_at`

type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func (r *WalletRepo) Create(ctx context.Context, w *models.PlatformWallet) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO platform_wallets (id, address, wallet_index, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, w.ID, w.Address, w.Index, w.Status).Scan(&w.CreatedAt)
}

func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*models.PlatformWallet, error) {
	return scanWallet(r.pool.QueryRow(ctx, `
		SELECT `+walletColumns+` FROM platform_wallets WHERE address = $1
	`, address))
}

func (r *WalletRepo) List(ctx context.Context) ([]*models.PlatformWallet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+walletColumns+` FROM platform_wallets ORDER BY wallet_index
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.PlatformWallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func (r *WalletRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE platform_wallets SET status = $2 WHERE id = $1
	`, id, status)
	return err
}

// Assign marks the wallet assigned and stamps assigned_at. The profile side of
// the link is written by the caller.
func (r *WalletRepo) Assign(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE platform_wallets SET status = $2, assigned_at = now() WHERE id = $1
	`, id, models.WalletStatusAssigned)
	return err
}

func scanWallet(row pgx.Row) (*models.PlatformWallet, error) {
	var w models.PlatformWallet
	err := row.Scan(&w.ID, &w.Address, &w.Index, &w.Status, &w.AssignedAt, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
