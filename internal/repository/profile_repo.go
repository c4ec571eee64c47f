package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ErrNotFound is returned by the catalog repositories when an id matches no row.
var ErrNotFound = errors.New("record not found")

const profileColumns = `id, email, username, role, kyc_status, wallet_balance, assigned_wallet, external_wallet_configured, created_at, updated_at`

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, username, password_hash, role, kyc_status, wallet_balance, assigned_wallet, external_wallet_configured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, p.ID, p.Email, p.Username, p.PasswordHash, p.Role, p.KYCStatus, p.WalletBalance, p.AssignedWallet, p.ExternalWalletConfigured).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE id = $1
	`, id))
}

func (r *ProfileRepo) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update edits the admin-editable profile fields; the wallet balance is
// deliberately excluded, it only moves through the ledger primitive.
func (r *ProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE profiles SET email = $2, username = $3, role = $4, kyc_status = $5, assigned_wallet = $6, external_wallet_configured = $7, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Email, p.Username, p.Role, p.KYCStatus, p.AssignedWallet, p.ExternalWalletConfigured)
	return err
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.Username, &p.Role, &p.KYCStatus, &p.WalletBalance, &p.AssignedWallet, &p.ExternalWalletConfigured, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
