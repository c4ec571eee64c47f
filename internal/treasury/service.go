package treasury

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ErrRecordNotFound is returned when the request id matches no row.
var ErrRecordNotFound = errors.New("record not found")

// ErrInvalidTransitionPayload is returned when a transition carries a
// malformed or missing amount, status, or transaction hash.
var ErrInvalidTransitionPayload = errors.New("invalid transition payload")

// Notice is the user-visible outcome of a status transition, surfaced as-is
// by the admin host.
type Notice struct {
	Message string `json:"message"`
	Type    string `json:"type"` // success | error
}

// TransitionResult is returned by the workflow entry points. NewBalance is
// set only when the transition moved funds.
type TransitionResult struct {
	NewBalance *decimal.Decimal `json:"new_balance,omitempty"`
	Notice     Notice           `json:"notice"`
}

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithdrawalStore is the minimal withdrawal-request accessor for the workflow.
type WithdrawalStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.WithdrawalRequest, error)
	SetStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error
	MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// DepositStore is the minimal deposit-request accessor for the workflow.
type DepositStore interface {
	Create(ctx context.Context, tx pgx.Tx, d *models.DepositRequest) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.DepositRequest, error)
	SetStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error
	MarkApproved(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// Ledger is the balance-and-transactions surface the workflows mutate.
type Ledger interface {
	Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	AppendTransaction(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	MarkTransactionByHash(ctx context.Context, tx pgx.Tx, hash, status string) (int64, error)
}

// Service runs the balance-mutating status transitions for withdrawal and
// deposit requests. Each transition executes in a single database
// transaction: the status write, the balance adjustment, and the ledger
// append commit together or not at all, so a downstream failure can never
// leave funds moved behind a stale status.
type Service struct {
	DB          TxBeginner
	Withdrawals WithdrawalStore
	Deposits    DepositStore
	Ledger      Ledger
}

func NewService(db TxBeginner, withdrawals WithdrawalStore, deposits DepositStore, ledger Ledger) *Service {
	return &Service{DB: db, Withdrawals: withdrawals, Deposits: deposits, Ledger: ledger}
}

var validWithdrawalStatuses = map[string]bool{
	models.WithdrawalStatusPending:    true,
	models.WithdrawalStatusVerified:   true,
	models.WithdrawalStatusProcessing: true,
	models.WithdrawalStatusCompleted:  true,
	models.WithdrawalStatusFailed:     true,
}

var validDepositStatuses = map[string]bool{
	models.DepositStatusPending:   true,
	models.DepositStatusApproved:  true,
	models.DepositStatusRejected:  true,
	models.DepositStatusCompleted: true,
}

func successNotice(format string, args ...any) Notice {
	return Notice{Message: fmt.Sprintf(format, args...), Type: "success"}
}

// ErrorNotice wraps a workflow error into the notice shape the admin host
// displays. The underlying message is surfaced verbatim.
func ErrorNotice(err error) Notice {
	return Notice{Message: err.Error(), Type: "error"}
}
