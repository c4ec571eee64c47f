package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

// Service is the balance-adjustment primitive. Every mutation of
// profiles.wallet_balance routes through it; the read-modify-write pair is a
// single conditional UPDATE so concurrent adjustments against the same
// account serialize at the row.
type Service interface {
	Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	AppendTransaction(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	MarkTransactionByHash(ctx context.Context, tx pgx.Tx, hash, status string) (int64, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

var _ Service = (*service)(nil)

func (s *service) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.repo.Credit(ctx, tx, accountID, amount)
}

func (s *service) Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.repo.Debit(ctx, tx, accountID, amount)
}

func (s *service) AppendTransaction(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	return s.repo.AppendTransaction(ctx, tx, t)
}

func (s *service) MarkTransactionByHash(ctx context.Context, tx pgx.Tx, hash, status string) (int64, error) {
	return s.repo.MarkTransactionByHash(ctx, tx, hash, status)
}

// ErrInsufficientBalance is returned when a debit would drive the balance negative.
var ErrInsufficientBalance = errInsufficientBalance

// ErrAccountNotFound is returned when the account id matches no profile row.
var ErrAccountNotFound = errAccountNotFound
