package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
)

// Stats is the aggregate snapshot rendered on the admin landing page.
type Stats struct {
	TotalUsers         int64                 `json:"total_users"`
	TotalNFTs          int64                 `json:"total_nfts"`
	TotalCollections   int64                 `json:"total_collections"`
	ActiveAuctions     int64                 `json:"active_auctions"`
	TotalVolume        decimal.Decimal       `json:"total_volume"`
	PendingKYC         int64                 `json:"pending_kyc"`
	PendingWithdrawals int64                 `json:"pending_withdrawals"`
	PendingDeposits    int64                 `json:"pending_deposits"`
	RecentTransactions []*models.Transaction `json:"recent_transactions"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Collect runs the dashboard aggregates sequentially over one connection.
// The numbers are advisory, so no snapshot isolation is needed.
func (r *Repository) Collect(ctx context.Context) (*Stats, error) {
	var s Stats

	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT count(*) FROM profiles WHERE role = 'USER'`, &s.TotalUsers},
		{`SELECT count(*) FROM nft_items`, &s.TotalNFTs},
		{`SELECT count(*) FROM collections`, &s.TotalCollections},
		{`SELECT count(*) FROM auctions WHERE status = 'live'`, &s.ActiveAuctions},
		{`SELECT count(*) FROM profiles WHERE kyc_status = 'pending'`, &s.PendingKYC},
		{`SELECT count(*) FROM withdrawal_requests WHERE status = 'pending'`, &s.PendingWithdrawals},
		{`SELECT count(*) FROM deposit_requests WHERE status = 'pending'`, &s.PendingDeposits},
	}
	for _, c := range counts {
		if err := r.pool.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(price), 0) FROM transactions
		WHERE status IN ('confirmed', 'completed')
	`).Scan(&s.TotalVolume)
	if err != nil {
		return nil, err
	}

	recent, err := r.recentTransactions(ctx, 5)
	if err != nil {
		return nil, err
	}
	s.RecentTransactions = recent
	return &s, nil
}

func (r *Repository) recentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, transaction_hash, nft_item_id, from_user_id, to_user_id, transaction_type, price, currency, status, gas_fee, platform_fee, royalty_fee, description, from_wallet, to_wallet, created_at, confirmed_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID, &t.TransactionHash, &t.NFTItemID, &t.FromUserID, &t.ToUserID,
			&t.TransactionType, &t.Price, &t.Currency, &t.Status,
			&t.GasFee, &t.PlatformFee, &t.RoyaltyFee,
			&t.Description, &t.FromWallet, &t.ToWallet,
			&t.CreatedAt, &t.ConfirmedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
