package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NFT rarity enums.
const (
	RarityCommon    = "Common"
	RarityRare      = "Rare"
	RarityEpic      = "Epic"
	RarityLegendary = "Legendary"
)

type NFTItem struct {
	ID           uuid.UUID        `json:"id"`
	CollectionID uuid.UUID        `json:"collection_id"`
	OwnerID      uuid.UUID        `json:"owner_id"`
	Name         string           `json:"name"`
	Image        *string          `json:"image,omitempty"`
	Attributes   json.RawMessage  `json:"attributes,omitempty"`
	IsListed     bool             `json:"is_listed"`
	ListPrice    *decimal.Decimal `json:"list_price,omitempty"`
	Rarity       string           `json:"rarity"`
	Views        int              `json:"views"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
