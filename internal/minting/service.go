package minting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ErrLastActiveConfig is returned when deleting the only active minting
// configuration; another row must be activated first.
var ErrLastActiveConfig = errors.New("cannot delete the only active minting configuration; activate another configuration first")

// ErrInvalidRate is returned when the minting rate falls outside [0, 1].
var ErrInvalidRate = errors.New("minting rate must be between 0 and 1")

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ConfigStore is the minimal minting-config accessor for the enforcer.
type ConfigStore interface {
	Create(ctx context.Context, tx pgx.Tx, c *models.MintingConfig) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.MintingConfig, error)
	Update(ctx context.Context, tx pgx.Tx, id uuid.UUID, rate decimal.Decimal, isActive bool) error
	DeactivateOthers(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	CountActive(ctx context.Context, tx pgx.Tx) (int, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// Service enforces the single-active-config invariant: at most one minting
// configuration row is active at any time, and the last active row cannot be
// deleted. Activation is last-writer-wins; every other row is forced
// inactive inside the same transaction as the write.
type Service struct {
	DB    TxBeginner
	Store ConfigStore
}

func NewService(db TxBeginner, store ConfigStore) *Service {
	return &Service{DB: db, Store: store}
}

var one = decimal.NewFromInt(1)

func validRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(one)
}

// CreateConfig inserts a new configuration. When it is created active, all
// other rows are deactivated in the same transaction.
func (s *Service) CreateConfig(ctx context.Context, rate decimal.Decimal, isActive bool) (*models.MintingConfig, error) {
	if !validRate(rate) {
		return nil, ErrInvalidRate
	}
	c := &models.MintingConfig{ID: uuid.New(), Rate: rate, IsActive: isActive}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.Store.Create(ctx, tx, c); err != nil {
		return nil, err
	}
	if isActive {
		if err := s.Store.DeactivateOthers(ctx, tx, c.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateConfig edits a configuration's rate and active flag, re-establishing
// the invariant when the row becomes active.
func (s *Service) UpdateConfig(ctx context.Context, id uuid.UUID, rate decimal.Decimal, isActive bool) (*models.MintingConfig, error) {
	if !validRate(rate) {
		return nil, ErrInvalidRate
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := s.Store.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Update(ctx, tx, id, rate, isActive); err != nil {
		return nil, err
	}
	if isActive {
		if err := s.Store.DeactivateOthers(ctx, tx, id); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	c.Rate = rate
	c.IsActive = isActive
	return c, nil
}

// SetActive activates the given configuration and deactivates every other
// row in one transaction.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	c, err := s.Store.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Update(ctx, tx, id, c.Rate, true); err != nil {
		return err
	}
	if err := s.Store.DeactivateOthers(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteConfig removes a configuration unless it is the sole active row, in
// which case nothing is deleted and ErrLastActiveConfig is returned. The
// active count and the delete share one transaction so a concurrent
// activation cannot slip between them.
func (s *Service) DeleteConfig(ctx context.Context, id uuid.UUID) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	c, err := s.Store.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if c.IsActive {
		active, err := s.Store.CountActive(ctx, tx)
		if err != nil {
			return err
		}
		if active == 1 {
			return ErrLastActiveConfig
		}
	}
	if err := s.Store.Delete(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
