package treasury

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/ledger"
	"github.com/vaultorx/admin-backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

// --- noopTx satisfies pgx.Tx for test use; only Commit/Rollback are called. ---

type noopTx struct {
	committed  bool
	rolledBack bool
}

func (t *noopTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(context.Context) error {
	t.committed = true
	return nil
}
func (t *noopTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}
func (*noopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (*noopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (*noopTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (*noopTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (*noopTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (*noopTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (*noopTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (*noopTx) Conn() *pgx.Conn { return nil }

// --- TxBeginner mock ---

type mockPool struct {
	lastTx *noopTx
}

func (m *mockPool) Begin(context.Context) (pgx.Tx, error) {
	m.lastTx = &noopTx{}
	return m.lastTx, nil
}

// --- WithdrawalStore mock ---

type mockWithdrawalStore struct {
	requests map[uuid.UUID]*models.WithdrawalRequest
}

func newMockWithdrawalStore() *mockWithdrawalStore {
	return &mockWithdrawalStore{requests: make(map[uuid.UUID]*models.WithdrawalRequest)}
}

func (m *mockWithdrawalStore) GetForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.WithdrawalRequest, error) {
	w, ok := m.requests[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return w, nil
}

func (m *mockWithdrawalStore) SetStatus(_ context.Context, _ pgx.Tx, id uuid.UUID, status string) error {
	w, ok := m.requests[id]
	if !ok {
		return ErrRecordNotFound
	}
	w.Status = status
	return nil
}

func (m *mockWithdrawalStore) MarkCompleted(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	return m.SetStatus(nil, nil, id, models.WithdrawalStatusCompleted)
}

// --- DepositStore mock ---

type mockDepositStore struct {
	requests map[uuid.UUID]*models.DepositRequest
}

func newMockDepositStore() *mockDepositStore {
	return &mockDepositStore{requests: make(map[uuid.UUID]*models.DepositRequest)}
}

func (m *mockDepositStore) Create(_ context.Context, _ pgx.Tx, d *models.DepositRequest) error {
	m.requests[d.ID] = d
	return nil
}

func (m *mockDepositStore) GetForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.DepositRequest, error) {
	d, ok := m.requests[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return d, nil
}

func (m *mockDepositStore) SetStatus(_ context.Context, _ pgx.Tx, id uuid.UUID, status string) error {
	d, ok := m.requests[id]
	if !ok {
		return ErrRecordNotFound
	}
	d.Status = status
	return nil
}

func (m *mockDepositStore) MarkApproved(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	return m.SetStatus(nil, nil, id, models.DepositStatusApproved)
}

func (m *mockDepositStore) MarkCompleted(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	return m.SetStatus(nil, nil, id, models.DepositStatusCompleted)
}

// --- Ledger mock: in-memory balances plus an append log ---

type mockLedger struct {
	balances     map[uuid.UUID]decimal.Decimal
	appended     []*models.Transaction
	markedHashes map[string]string
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		balances:     make(map[uuid.UUID]decimal.Decimal),
		markedHashes: make(map[string]string),
	}
}

func (m *mockLedger) Credit(_ context.Context, _ pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	bal, ok := m.balances[accountID]
	if !ok {
		return decimal.Zero, ledger.ErrAccountNotFound
	}
	bal = bal.Add(amount)
	m.balances[accountID] = bal
	return bal, nil
}

func (m *mockLedger) Debit(_ context.Context, _ pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	bal, ok := m.balances[accountID]
	if !ok {
		return decimal.Zero, ledger.ErrAccountNotFound
	}
	if bal.LessThan(amount) {
		return decimal.Zero, ledger.ErrInsufficientBalance
	}
	bal = bal.Sub(amount)
	m.balances[accountID] = bal
	return bal, nil
}

func (m *mockLedger) AppendTransaction(_ context.Context, _ pgx.Tx, t *models.Transaction) error {
	m.appended = append(m.appended, t)
	return nil
}

func (m *mockLedger) MarkTransactionByHash(_ context.Context, _ pgx.Tx, hash, status string) (int64, error) {
	m.markedHashes[hash] = status
	return 1, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService() (*Service, *mockPool, *mockWithdrawalStore, *mockDepositStore, *mockLedger) {
	pool := &mockPool{}
	ws := newMockWithdrawalStore()
	ds := newMockDepositStore()
	lg := newMockLedger()
	return NewService(pool, ws, ds, lg), pool, ws, ds, lg
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("bad decimal literal %q: %v", s, err))
	}
	return d
}
