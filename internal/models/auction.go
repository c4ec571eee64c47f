package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Auction type enums.
const (
	AuctionTypeStandard   = "STANDARD"
	AuctionTypeReserve    = "RESERVE"
	AuctionTypeTimed      = "TIMED"
	AuctionTypeDutch      = "DUTCH"
	AuctionTypeBlind      = "BLIND"
	AuctionTypeLottery    = "LOTTERY"
	AuctionTypeBuyNow     = "BUY_NOW"
	AuctionTypeMultiToken = "MULTI_TOKEN"
)

// Auction status enums.
const (
	AuctionStatusLive      = "live"
	AuctionStatusUpcoming  = "upcoming"
	AuctionStatusEnded     = "ended"
	AuctionStatusCancelled = "cancelled"
)

type Auction struct {
	ID            uuid.UUID        `json:"id"`
	NFTItemID     uuid.UUID        `json:"nft_item_id"`
	Type          string           `json:"type"`
	Status        string           `json:"status"`
	StartingPrice decimal.Decimal  `json:"starting_price"`
	ReservePrice  *decimal.Decimal `json:"reserve_price,omitempty"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       time.Time        `json:"end_time"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type Bid struct {
	ID        uuid.UUID       `json:"id"`
	AuctionID uuid.UUID       `json:"auction_id"`
	BidderID  uuid.UUID       `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
