package repository

import (
	"context"
	"database/sql"
	"time"

	"deepsea/internal/models"
	"deepsea/internal/storage"
)

type DuelRepository struct {
	db storage.DBTX
}

func NewDuelRepository(db storage.DBTX) *DuelRepository {
	return &DuelRepository{db: db}
}

func (r *DuelRepository) WithTx(tx *sql.Tx) *DuelRepository {
	return &DuelRepository{db: tx}
}

func (r *DuelRepository) Create(ctx context.Context, d *models.DuelRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO duels (kind, attacker_id, defender_id, defender_name, outcome, special, score_a, score_b, stake, log, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Kind, d.AttackerID, d.DefenderID, d.DefenderName, d.Outcome, d.Special,
		d.ScoreA, d.ScoreB, d.Stake, d.Log, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListForPlayer returns the latest duels where the player attacked or defended.
func (r *DuelRepository) ListForPlayer(ctx context.Context, playerID int64, limit int) ([]models.DuelRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, kind, attacker_id, defender_id, defender_name, outcome, special, score_a, score_b, stake, log, created_at
FROM duels
WHERE attacker_id = ? OR defender_id = ?
ORDER BY id DESC LIMIT ?`, playerID, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DuelRecord
	for rows.Next() {
		var (
			d   models.DuelRecord
			def sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &d.Kind, &d.AttackerID, &def, &d.DefenderName, &d.Outcome, &d.Special,
			&d.ScoreA, &d.ScoreB, &d.Stake, &d.Log, &d.CreatedAt); err != nil {
			return nil, err
		}
		if def.Valid {
			id := def.Int64
			d.DefenderID = &id
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
