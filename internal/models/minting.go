package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MintingConfig is the platform minting-rate setting. At most one row is
// active at any time; the invariant is enforced by the minting service, not
// the database.
type MintingConfig struct {
	ID        uuid.UUID       `json:"id"`
	Rate      decimal.Decimal `json:"rate"` // fraction in [0, 1]
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
