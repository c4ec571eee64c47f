package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Collection struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	ContractAddress string          `json:"contract_address"`
	CreatorID       uuid.UUID       `json:"creator_id"`
	Verified        bool            `json:"verified"`
	FloorPrice      decimal.Decimal `json:"floor_price"`
	TotalVolume     decimal.Decimal `json:"total_volume"`
	Image           *string         `json:"image,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
