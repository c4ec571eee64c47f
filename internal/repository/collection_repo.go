package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultorx/admin-backend/internal/models"
)

const collectionColumns = `id, name, contract_address, creator_id, verified, floor_price, total_volume, image, created_at, updated_at`

type CollectionRepo struct {
	pool *pgxpool.Pool
}

func NewCollectionRepo(pool *pgxpool.Pool) *CollectionRepo {
	return &CollectionRepo{pool: pool}
}

func (r *CollectionRepo) Create(ctx context.Context, c *models.Collection) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO collections (id, name, contract_address, creator_id, verified, floor_price, total_volume, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.ContractAddress, c.CreatorID, c.Verified, c.FloorPrice, c.TotalVolume, c.Image).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CollectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	return scanCollection(r.pool.QueryRow(ctx, `
		SELECT `+collectionColumns+` FROM collections WHERE id = $1
	`, id))
}

func (r *CollectionRepo) List(ctx context.Context) ([]*models.Collection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+collectionColumns+` FROM collections ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CollectionRepo) Update(ctx context.Context, c *models.Collection) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE collections SET name = $2, contract_address = $3, verified = $4, floor_price = $5, total_volume = $6, updated_at = now()
		WHERE id = $1
	`, c.ID, c.Name, c.ContractAddress, c.Verified, c.FloorPrice, c.TotalVolume)
	return err
}

// SetImage is called by the media worker once the object upload finishes.
func (r *CollectionRepo) SetImage(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE collections SET image = $2, updated_at = now() WHERE id = $1
	`, id, url)
	return err
}

func scanCollection(row pgx.Row) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(&c.ID, &c.Name, &c.ContractAddress, &c.CreatorID, &c.Verified, &c.FloorPrice, &c.TotalVolume, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
