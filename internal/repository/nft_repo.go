package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultorx/admin-backend/internal/models"
)

const nftColumns = `id, collection_id, owner_id, name, image, attributes, is_listed, list_price, rarity, views, created_at, updated_at`

type NFTRepo struct {
	pool *pgxpool.Pool
}

func NewNFTRepo(pool *pgxpool.Pool) *NFTRepo {
	return &NFTRepo{pool: pool}
}

func (r *NFTRepo) Create(ctx context.Context, n *models.NFTItem) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO nft_items (id, collection_id, owner_id, name, image, attributes, is_listed, list_price, rarity, views)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, n.ID, n.CollectionID, n.OwnerID, n.Name, n.Image, n.Attributes, n.IsListed, n.ListPrice, n.Rarity, n.Views).Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *NFTRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.NFTItem, error) {
	return scanNFT(r.pool.QueryRow(ctx, `
		SELECT `+nftColumns+` FROM nft_items WHERE id = $1
	`, id))
}

func (r *NFTRepo) List(ctx context.Context) ([]*models.NFTItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+nftColumns+` FROM nft_items ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.NFTItem
	for rows.Next() {
		n, err := scanNFT(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *NFTRepo) Update(ctx context.Context, n *models.NFTItem) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE nft_items SET name = $2, attributes = $3, is_listed = $4, list_price = $5, rarity = $6, updated_at = now()
		WHERE id = $1
	`, n.ID, n.Name, n.Attributes, n.IsListed, n.ListPrice, n.Rarity)
	return err
}

// SetImage is called by the media worker once the object upload finishes.
func (r *NFTRepo) SetImage(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE nft_items SET image = $2, updated_at = now() WHERE id = $1
	`, id, url)
	return err
}

func scanNFT(row pgx.Row) (*models.NFTItem, error) {
	var n models.NFTItem
	err := row.Scan(&n.ID, &n.CollectionID, &n.OwnerID, &n.Name, &n.Image, &n.Attributes, &n.IsListed, &n.ListPrice, &n.Rarity, &n.Views, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
