package repository

import (
	"context"
	"database/sql"
	"time"

	"deepsea/internal/models"
	"deepsea/internal/storage"
)

type FishRepository struct {
	db storage.DBTX
}

func NewFishRepository(db storage.DBTX) *FishRepository {
	return &FishRepository{db: db}
}

func (r *FishRepository) WithTx(tx *sql.Tx) *FishRepository {
	return &FishRepository{db: tx}
}

func (r *FishRepository) Add(ctx context.Context, f *models.Fish) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO fish (owner_id, species, rarity, weight, value, caught_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		f.OwnerID, f.Species, f.Rarity, f.Weight, f.Value, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByOwner returns the whole pond, best fish first.
func (r *FishRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Fish, error) {
	return r.query(ctx, `
SELECT id, owner_id, species, rarity, weight, value, squad_slot, caught_at
FROM fish WHERE owner_id = ?
ORDER BY rarity DESC, value DESC, id`, ownerID)
}

// Squad returns the fish in squad slots, ordered by slot.
func (r *FishRepository) Squad(ctx context.Context, ownerID int64) ([]models.Fish, error) {
	return r.query(ctx, `
SELECT id, owner_id, species, rarity, weight, value, squad_slot, caught_at
FROM fish WHERE owner_id = ? AND squad_slot IS NOT NULL
ORDER BY squad_slot`, ownerID)
}

func (r *FishRepository) query(ctx context.Context, q string, args ...any) ([]models.Fish, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Fish
	for rows.Next() {
		var (
			f    models.Fish
			slot sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Species, &f.Rarity, &f.Weight, &f.Value, &slot, &f.CaughtAt); err != nil {
			return nil, err
		}
		if slot.Valid {
			s := int(slot.Int64)
			f.SquadSlot = &s
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SetSquad clears the owner's squad and puts ids into slots 0..len-1.
func (r *FishRepository) SetSquad(ctx context.Context, ownerID int64, ids []int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE fish SET squad_slot = NULL WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}
	for slot, id := range ids {
		res, err := r.db.ExecContext(ctx, `UPDATE fish SET squad_slot = ? WHERE id = ? AND owner_id = ?`, slot, id, ownerID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotOwned
		}
	}
	return nil
}

// Transfer moves a fish to a new owner's pond, outside any squad.
func (r *FishRepository) Transfer(ctx context.Context, fishID, fromOwner, toOwner int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE fish SET owner_id = ?, squad_slot = NULL
WHERE id = ? AND owner_id = ?`, toOwner, fishID, fromOwner)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotOwned
	}
	return nil
}

func (r *FishRepository) Count(ctx context.Context, ownerID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fish WHERE owner_id = ?`, ownerID).Scan(&n)
	return n, err
}
