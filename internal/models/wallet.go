package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform wallet status enums.
const (
	WalletStatusAvailable   = "available"
	WalletStatusAssigned    = "assigned"
	WalletStatusMaintenance = "maintenance"
	WalletStatusDisabled    = "disabled"
)

// PlatformWallet is a custodial deposit address owned by the platform and
// assignable to a single profile.
type PlatformWallet struct {
	ID         uuid.UUID  `json:"id"`
	Address    string     `json:"address"`
	Index      int        `json:"index"`
	Status     string     `json:"status"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
