package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultorx/admin-backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByEmailWithHash returns the profile and its password hash for login.
// Returns nil without error when the email is unknown.
func (r *Repository) GetByEmailWithHash(ctx context.Context, email string) (*models.Profile, string, error) {
	var p models.Profile
	var hash string
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, username, password_hash, role, kyc_status, wallet_balance, created_at, updated_at
		FROM profiles WHERE email = $1
	`, email).Scan(&p.ID, &p.Email, &p.Username, &hash, &p.Role, &p.KYCStatus, &p.WalletBalance, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &p, hash, nil
}

// CreateAdmin inserts a bootstrap admin profile.
func (r *Repository) CreateAdmin(ctx context.Context, email, passwordHash, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, email, username, password_hash, role, kyc_status, wallet_balance)
		VALUES ($1, $2, $3, $4, $5, 'approved', 0)
	`, uuid.New(), email, email, passwordHash, role)
	return err
}
