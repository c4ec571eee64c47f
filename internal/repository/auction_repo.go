package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultorx/admin-backend/internal/models"
)

const auctionColumns = `id, nft_item_id, type, status, starting_price, reserve_price, start_time, end_time, created_at, updated_at`

type AuctionRepo struct {
	pool *pgxpool.Pool
}

func NewAuctionRepo(pool *pgxpool.Pool) *AuctionRepo {
	return &AuctionRepo{pool: pool}
}

func (r *AuctionRepo) Create(ctx context.Context, a *models.Auction) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO auctions (id, nft_item_id, type, status, starting_price, reserve_price, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, a.ID, a.NFTItemID, a.Type, a.Status, a.StartingPrice, a.ReservePrice, a.StartTime, a.EndTime).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *AuctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return scanAuction(r.pool.QueryRow(ctx, `
		SELECT `+auctionColumns+` FROM auctions WHERE id = $1
	`, id))
}

func (r *AuctionRepo) List(ctx context.Context) ([]*models.Auction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+auctionColumns+` FROM auctions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AuctionRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE auctions SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	return err
}

// StartDue flips upcoming auctions whose start time has passed to live.
// Returns the number of rows flipped.
func (r *AuctionRepo) StartDue(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE auctions SET status = $1, updated_at = now()
		WHERE status = $2 AND start_time <= now()
	`, models.AuctionStatusLive, models.AuctionStatusUpcoming)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// EndDue flips live auctions whose end time has passed to ended.
func (r *AuctionRepo) EndDue(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE auctions SET status = $1, updated_at = now()
		WHERE status = $2 AND end_time <= now()
	`, models.AuctionStatusEnded, models.AuctionStatusLive)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanAuction(row pgx.Row) (*models.Auction, error) {
	var a models.Auction
	err := row.Scan(&a.ID, &a.NFTItemID, &a.Type, &a.Status, &a.StartingPrice, &a.ReservePrice, &a.StartTime, &a.EndTime, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type BidRepo struct {
	pool *pgxpool.Pool
}

func NewBidRepo(pool *pgxpool.Pool) *BidRepo {
	return &BidRepo{pool: pool}
}

func (r *BidRepo) Create(ctx context.Context, b *models.Bid) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO bids (id, auction_id, bidder_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, b.ID, b.AuctionID, b.BidderID, b.Amount).Scan(&b.CreatedAt)
}

func (r *BidRepo) ListByAuctionID(ctx context.Context, auctionID uuid.UUID) ([]*models.Bid, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, auction_id, bidder_id, amount, created_at
		FROM bids WHERE auction_id = $1 ORDER BY amount DESC
	`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Bid
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
