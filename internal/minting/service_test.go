package minting

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type noopTx struct{}

func (noopTx) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }
func (noopTx) Commit(context.Context) error          { return nil }
func (noopTx) Rollback(context.Context) error        { return nil }
func (noopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (noopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (noopTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (noopTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (noopTx) Conn() *pgx.Conn { return nil }

type mockPool struct{}

func (mockPool) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }

type mockConfigStore struct {
	configs map[uuid.UUID]*models.MintingConfig
	deleted []uuid.UUID
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{configs: make(map[uuid.UUID]*models.MintingConfig)}
}

func (m *mockConfigStore) Create(_ context.Context, _ pgx.Tx, c *models.MintingConfig) error {
	m.configs[c.ID] = c
	return nil
}

func (m *mockConfigStore) GetForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.MintingConfig, error) {
	c, ok := m.configs[id]
	if !ok {
		return nil, ErrConfigNotFound
	}
	return c, nil
}

func (m *mockConfigStore) Update(_ context.Context, _ pgx.Tx, id uuid.UUID, rate decimal.Decimal, isActive bool) error {
	c, ok := m.configs[id]
	if !ok {
		return ErrConfigNotFound
	}
	c.Rate = rate
	c.IsActive = isActive
	return nil
}

func (m *mockConfigStore) DeactivateOthers(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	for other, c := range m.configs {
		if other != id {
			c.IsActive = false
		}
	}
	return nil
}

func (m *mockConfigStore) CountActive(_ context.Context, _ pgx.Tx) (int, error) {
	n := 0
	for _, c := range m.configs {
		if c.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockConfigStore) Delete(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	if _, ok := m.configs[id]; !ok {
		return ErrConfigNotFound
	}
	delete(m.configs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newTestService() (*Service, *mockConfigStore) {
	store := newMockConfigStore()
	return NewService(mockPool{}, store), store
}

func rate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCreateConfig_ActiveDeactivatesOthers(t *testing.T) {
	svc, store := newTestService()

	a, err := svc.CreateConfig(context.Background(), rate("0.05"), true)
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := svc.CreateConfig(context.Background(), rate("0.10"), true)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	if store.configs[a.ID].IsActive {
		t.Error("config a should have been deactivated by b")
	}
	if !store.configs[b.ID].IsActive {
		t.Error("config b should be active")
	}

	active, _ := store.CountActive(context.Background(), nil)
	if active != 1 {
		t.Errorf("active count = %d, want 1", active)
	}
}

func TestCreateConfig_RejectsOutOfRangeRate(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.CreateConfig(context.Background(), rate("1.5"), false); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("rate 1.5: err = %v, want ErrInvalidRate", err)
	}
	if _, err := svc.CreateConfig(context.Background(), rate("-0.1"), false); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("rate -0.1: err = %v, want ErrInvalidRate", err)
	}
}

func TestSetActive_SwitchesActiveRow(t *testing.T) {
	svc, store := newTestService()

	a, _ := svc.CreateConfig(context.Background(), rate("0.05"), true)
	b, _ := svc.CreateConfig(context.Background(), rate("0.10"), false)

	if err := svc.SetActive(context.Background(), b.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if store.configs[a.ID].IsActive {
		t.Error("config a should be inactive after activating b")
	}
	if !store.configs[b.ID].IsActive {
		t.Error("config b should be active")
	}
}

func TestDeleteConfig_SoleActiveIsUndeletable(t *testing.T) {
	svc, store := newTestService()

	a, _ := svc.CreateConfig(context.Background(), rate("0.05"), true)

	err := svc.DeleteConfig(context.Background(), a.ID)
	if !errors.Is(err, ErrLastActiveConfig) {
		t.Fatalf("err = %v, want ErrLastActiveConfig", err)
	}
	if _, ok := store.configs[a.ID]; !ok {
		t.Error("config a must survive the refused delete")
	}
}

func TestDeleteConfig_ActiveWithSiblingActive(t *testing.T) {
	svc, store := newTestService()

	a, _ := svc.CreateConfig(context.Background(), rate("0.05"), true)
	b, _ := svc.CreateConfig(context.Background(), rate("0.10"), false)
	// Force two active rows to simulate a legacy state; delete must still
	// pass because another active row remains.
	store.configs[b.ID].IsActive = true

	if err := svc.DeleteConfig(context.Background(), a.ID); err != nil {
		t.Fatalf("DeleteConfig: %v", err)
	}
	if _, ok := store.configs[a.ID]; ok {
		t.Error("config a should be deleted")
	}
}

func TestDeleteConfig_InactiveAlwaysDeletable(t *testing.T) {
	svc, store := newTestService()

	svc.CreateConfig(context.Background(), rate("0.05"), true)
	b, _ := svc.CreateConfig(context.Background(), rate("0.10"), false)

	if err := svc.DeleteConfig(context.Background(), b.ID); err != nil {
		t.Fatalf("DeleteConfig: %v", err)
	}
	if _, ok := store.configs[b.ID]; ok {
		t.Error("config b should be deleted")
	}
}

func TestUpdateConfig_ActivatingReassertsInvariant(t *testing.T) {
	svc, store := newTestService()

	a, _ := svc.CreateConfig(context.Background(), rate("0.05"), true)
	b, _ := svc.CreateConfig(context.Background(), rate("0.10"), false)

	updated, err := svc.UpdateConfig(context.Background(), b.ID, rate("0.15"), true)
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if !updated.Rate.Equal(rate("0.15")) {
		t.Errorf("rate = %s, want 0.15", updated.Rate)
	}
	if store.configs[a.ID].IsActive {
		t.Error("config a should be inactive after b's activation")
	}
}

func TestUpdateConfig_MissingRow(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateConfig(context.Background(), uuid.New(), rate("0.5"), false)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("err = %v, want ErrConfigNotFound", err)
	}
}
