package application

import (
	"context"
	"database/sql"
	"fmt"

	"deepsea/internal/corridor"
	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
	"deepsea/internal/models"
	"deepsea/internal/repository"
	"deepsea/internal/storage"

	"go.uber.org/zap"
)

type CorridorOutcome struct {
	Result   *duel.Result
	Strength int
	Tier     gamedata.Tier
	Reward   *corridor.Reward // nil unless the player won
}

// CorridorService runs mirror-corridor runs against generated guards.
type CorridorService struct {
	db       *sql.DB
	engine   *duel.Engine
	data     *gamedata.Data
	players  *PlayerService
	playerDB *repository.PlayerRepository
	fish     *repository.FishRepository
	items    *repository.ItemRepository
	duels    *repository.DuelRepository
	locks    *PlayerLocks
	logger   *zap.Logger
	newRand  RandFactory
}

func NewCorridorService(
	db *sql.DB,
	engine *duel.Engine,
	data *gamedata.Data,
	players *PlayerService,
	playerDB *repository.PlayerRepository,
	fish *repository.FishRepository,
	items *repository.ItemRepository,
	duels *repository.DuelRepository,
	locks *PlayerLocks,
	logger *zap.Logger,
) *CorridorService {
	return &CorridorService{
		db:       db,
		engine:   engine,
		data:     data,
		players:  players,
		playerDB: playerDB,
		fish:     fish,
		items:    items,
		duels:    duels,
		locks:    locks,
		logger:   logger,
		newRand:  defaultRand,
	}
}

// Preview reports the tier the player's current squad would face.
func (s *CorridorService) Preview(ctx context.Context, vkID int64) (int, gamedata.Tier, error) {
	squad, err := s.squad(ctx, vkID)
	if err != nil {
		return 0, gamedata.Tier{}, err
	}
	st := corridor.Strength(rarities(squad))
	return st, corridor.TierFor(s.data.Corridor, st), nil
}

func (s *CorridorService) squad(ctx context.Context, vkID int64) ([]models.Fish, error) {
	p, err := s.players.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}
	squad, err := s.fish.Squad(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if len(squad) != duel.RosterSize {
		return nil, ErrSquadIncomplete
	}
	return squad, nil
}

// Run sends the player's squad against the guards of its tier and grants the
// tier reward on a win.
func (s *CorridorService) Run(ctx context.Context, vkID int64) (*CorridorOutcome, error) {
	p, err := s.players.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(p.ID)
	defer unlock()

	out := &CorridorOutcome{}
	err = storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		players := s.playerDB.WithTx(tx)

		me, err := players.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		squad, err := s.fish.WithTx(tx).Squad(ctx, me.ID)
		if err != nil {
			return err
		}
		if len(squad) != duel.RosterSize {
			return ErrSquadIncomplete
		}

		out.Strength = corridor.Strength(rarities(squad))
		out.Tier = corridor.TierFor(s.data.Corridor, out.Strength)

		rng := s.newRand()
		guards, err := corridor.Guards(s.data.Corridor, s.data.Species, out.Tier, rng)
		if err != nil {
			return err
		}
		res, err := s.engine.Run(rng, rosterFor(me, squad), guards)
		if err != nil {
			return fmt.Errorf("run corridor duel: %w", err)
		}
		out.Result = res

		outcome := models.OutcomeDraw
		switch {
		case res.Draw:
		case res.Won(combatantID(me)):
			outcome = models.OutcomeWin
			rw := corridor.Roll(s.data.Corridor, out.Tier, rng)
			if err := players.AddRewards(ctx, me.ID, rw.Currency, rw.Craft, rw.Containers); err != nil {
				return err
			}
			if rw.RareItem != "" {
				if err := s.items.WithTx(tx).Add(ctx, me.ID, rw.RareItem, 1); err != nil {
					return err
				}
			}
			out.Reward = &rw
		default:
			outcome = models.OutcomeLoss
		}

		_, err = s.duels.WithTx(tx).Create(ctx, &models.DuelRecord{
			Kind:         models.DuelKindCorridor,
			AttackerID:   me.ID,
			DefenderName: fmt.Sprintf("%s (ур. %d)", guards.Name, out.Tier.Tier),
			Outcome:      outcome,
			Special:      res.SpecialWin,
			ScoreA:       res.ScoreA,
			ScoreB:       res.ScoreB,
			Log:          res.Text(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("corridor run finished",
		zap.Int64("vk_id", vkID),
		zap.Int("tier", out.Tier.Tier),
		zap.Int("strength", out.Strength),
		zap.Bool("won", out.Reward != nil),
	)
	return out, nil
}
