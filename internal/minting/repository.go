package minting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ErrConfigNotFound is returned when the config id matches no row.
var ErrConfigNotFound = errors.New("minting configuration not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, tx pgx.Tx, c *models.MintingConfig) error {
	return tx.QueryRow(ctx, `
		INSERT INTO minting_config (id, rate, is_active)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, c.ID, c.Rate, c.IsActive).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.MintingConfig, error) {
	return scanConfig(r.pool.QueryRow(ctx, `
		SELECT id, rate, is_active, created_at, updated_at FROM minting_config WHERE id = $1
	`, id))
}

// GetForUpdate locks the config row for the duration of the operation.
func (r *Repository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.MintingConfig, error) {
	return scanConfig(tx.QueryRow(ctx, `
		SELECT id, rate, is_active, created_at, updated_at FROM minting_config WHERE id = $1 FOR UPDATE
	`, id))
}

func (r *Repository) Update(ctx context.Context, tx pgx.Tx, id uuid.UUID, rate decimal.Decimal, isActive bool) error {
	_, err := tx.Exec(ctx, `
		UPDATE minting_config SET rate = $2, is_active = $3, updated_at = now() WHERE id = $1
	`, id, rate, isActive)
	return err
}

// DeactivateOthers forces every row except id inactive.
func (r *Repository) DeactivateOthers(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE minting_config SET is_active = FALSE, updated_at = now() WHERE id <> $1 AND is_active
	`, id)
	return err
}

func (r *Repository) CountActive(ctx context.Context, tx pgx.Tx) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM minting_config WHERE is_active`).Scan(&n)
	return n, err
}

func (r *Repository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM minting_config WHERE id = $1`, id)
	return err
}

func (r *Repository) List(ctx context.Context) ([]*models.MintingConfig, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, rate, is_active, created_at, updated_at FROM minting_config ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.MintingConfig
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanConfig(row pgx.Row) (*models.MintingConfig, error) {
	var c models.MintingConfig
	err := row.Scan(&c.ID, &c.Rate, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
