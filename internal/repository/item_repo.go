package repository

import (
	"context"
	"database/sql"

	"deepsea/internal/models"
	"deepsea/internal/storage"
)

type ItemRepository struct {
	db storage.DBTX
}

func NewItemRepository(db storage.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) WithTx(tx *sql.Tx) *ItemRepository {
	return &ItemRepository{db: tx}
}

// Add stacks qty onto the owner's item of that name.
func (r *ItemRepository) Add(ctx context.Context, ownerID int64, name string, qty int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO items (owner_id, name, qty) VALUES (?, ?, ?)
ON CONFLICT(owner_id, name) DO UPDATE SET qty = qty + excluded.qty`, ownerID, name, qty)
	return err
}

func (r *ItemRepository) List(ctx context.Context, ownerID int64) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, name, qty FROM items
WHERE owner_id = ? AND qty > 0 ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Qty); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
