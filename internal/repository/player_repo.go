package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"deepsea/internal/models"
	"deepsea/internal/storage"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotOwned          = errors.New("fish does not belong to player")
)

type PlayerRepository struct {
	db storage.DBTX
}

func NewPlayerRepository(db storage.DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *PlayerRepository) WithTx(tx *sql.Tx) *PlayerRepository {
	return &PlayerRepository{db: tx}
}

const playerColumns = `id, vk_id, name, faction, stones, craft, containers, created_at`

func scanPlayer(row *sql.Row) (*models.Player, error) {
	var p models.Player
	if err := row.Scan(&p.ID, &p.VKID, &p.Name, &p.Faction, &p.Stones, &p.Craft, &p.Containers, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) GetByVKID(ctx context.Context, vkID int64) (*models.Player, error) {
	return scanPlayer(r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE vk_id = ? LIMIT 1`, vkID))
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	return scanPlayer(r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
}

func (r *PlayerRepository) Create(ctx context.Context, p *models.Player) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO players (vk_id, name, faction, stones, created_at)
VALUES (?, ?, ?, ?, ?)`,
		p.VKID, p.Name, p.Faction, p.Stones, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *PlayerRepository) UpdateName(ctx context.Context, id int64, name string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE players SET name = ? WHERE id = ?`, name, id)
	return err
}

func (r *PlayerRepository) UpdateFaction(ctx context.Context, id int64, faction string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE players SET faction = ? WHERE id = ?`, faction, id)
	return err
}

// AddStones changes the stone balance by delta and refuses to go below zero.
func (r *PlayerRepository) AddStones(ctx context.Context, id int64, delta int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE players SET stones = stones + ?
WHERE id = ? AND stones + ? >= 0`, delta, id, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (r *PlayerRepository) AddRewards(ctx context.Context, id int64, stones, craft, containers int) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE players
SET stones = stones + ?, craft = craft + ?, containers = containers + ?
WHERE id = ?`, stones, craft, containers, id)
	return err
}
