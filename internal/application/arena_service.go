package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"deepsea/internal/duel"
	"deepsea/internal/models"
	"deepsea/internal/repository"
	"deepsea/internal/storage"

	"go.uber.org/zap"
)

// BigWinMargin is the score margin at which the winner takes two fish instead of one.
const BigWinMargin = 3

type ArenaOutcome struct {
	Result   *duel.Result
	Attacker *models.Player
	Defender *models.Player
	Winner   *models.Player // nil on a draw
	Stake    int
	Taken    []models.Fish
}

// ArenaService runs player-vs-player duels and settles stakes and fish.
type ArenaService struct {
	db       *sql.DB
	engine   *duel.Engine
	players  *PlayerService
	playerDB *repository.PlayerRepository
	fish     *repository.FishRepository
	duels    *repository.DuelRepository
	locks    *PlayerLocks
	maxStake int
	logger   *zap.Logger
	newRand  RandFactory
}

func NewArenaService(
	db *sql.DB,
	engine *duel.Engine,
	players *PlayerService,
	playerDB *repository.PlayerRepository,
	fish *repository.FishRepository,
	duels *repository.DuelRepository,
	locks *PlayerLocks,
	maxStake int,
	logger *zap.Logger,
) *ArenaService {
	return &ArenaService{
		db:       db,
		engine:   engine,
		players:  players,
		playerDB: playerDB,
		fish:     fish,
		duels:    duels,
		locks:    locks,
		maxStake: maxStake,
		logger:   logger,
		newRand:  defaultRand,
	}
}

// Challenge runs a duel between attacker and defender. The stake is escrowed from
// both sides; the winner collects both stakes, a draw refunds them. Everything
// happens in one transaction.
func (s *ArenaService) Challenge(ctx context.Context, attackerVK, defenderVK int64, stake int) (*ArenaOutcome, error) {
	switch {
	case attackerVK == defenderVK:
		return nil, ErrSelfDuel
	case stake < 0:
		return nil, ErrBadStake
	case stake > s.maxStake:
		return nil, fmt.Errorf("%w: max %d", ErrStakeTooHigh, s.maxStake)
	}

	attacker, err := s.players.GetOrCreateByVK(ctx, attackerVK)
	if err != nil {
		return nil, err
	}
	defender, err := s.players.Find(ctx, defenderVK)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(attacker.ID, defender.ID)
	defer unlock()

	out := &ArenaOutcome{Stake: stake}
	err = storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		players := s.playerDB.WithTx(tx)
		fish := s.fish.WithTx(tx)

		a, err := players.GetByID(ctx, attacker.ID)
		if err != nil {
			return err
		}
		d, err := players.GetByID(ctx, defender.ID)
		if err != nil {
			return err
		}
		out.Attacker, out.Defender = a, d

		squadA, err := fish.Squad(ctx, a.ID)
		if err != nil {
			return err
		}
		if len(squadA) != duel.RosterSize {
			return ErrSquadIncomplete
		}
		squadD, err := fish.Squad(ctx, d.ID)
		if err != nil {
			return err
		}
		if len(squadD) != duel.RosterSize {
			return ErrOpponentSquadIncomplete
		}

		if stake > 0 {
			if err := escrow(ctx, players, a.ID, stake, ErrNotEnoughStones); err != nil {
				return err
			}
			if err := escrow(ctx, players, d.ID, stake, ErrOpponentNotEnoughStones); err != nil {
				return err
			}
		}

		rng := s.newRand()
		res, err := s.engine.Run(rng, rosterFor(a, squadA), rosterFor(d, squadD))
		if err != nil {
			return fmt.Errorf("run duel: %w", err)
		}
		out.Result = res

		outcome := models.OutcomeDraw
		if res.Draw {
			if stake > 0 {
				if err := players.AddStones(ctx, a.ID, stake); err != nil {
					return err
				}
				if err := players.AddStones(ctx, d.ID, stake); err != nil {
					return err
				}
			}
		} else {
			winner, loser, loserSquad := a, d, squadD
			outcome = models.OutcomeWin
			if res.WinnerID != combatantID(a) {
				winner, loser, loserSquad = d, a, squadA
				outcome = models.OutcomeLoss
			}
			out.Winner = winner
			if stake > 0 {
				if err := players.AddStones(ctx, winner.ID, 2*stake); err != nil {
					return err
				}
			}
			taken, err := takeFish(ctx, fish, rng, loserSquad, loser.ID, winner.ID, spoils(res))
			if err != nil {
				return err
			}
			out.Taken = taken
		}

		_, err = s.duels.WithTx(tx).Create(ctx, &models.DuelRecord{
			Kind:         models.DuelKindArena,
			AttackerID:   a.ID,
			DefenderID:   &d.ID,
			DefenderName: d.Name,
			Outcome:      outcome,
			Special:      res.SpecialWin,
			ScoreA:       res.ScoreA,
			ScoreB:       res.ScoreB,
			Stake:        stake,
			Log:          res.Text(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("arena duel finished",
		zap.Int64("attacker", attackerVK),
		zap.Int64("defender", defenderVK),
		zap.Int("stake", stake),
		zap.Int("score_a", out.Result.ScoreA),
		zap.Int("score_b", out.Result.ScoreB),
		zap.Bool("draw", out.Result.Draw),
		zap.Int("fish_taken", len(out.Taken)),
	)
	return out, nil
}

func escrow(ctx context.Context, players *repository.PlayerRepository, id int64, stake int, short error) error {
	err := players.AddStones(ctx, id, -stake)
	if errors.Is(err, repository.ErrInsufficientFunds) {
		return short
	}
	return err
}

// spoils is how many fish the loser gives up.
func spoils(res *duel.Result) int {
	if res.Margin() >= BigWinMargin {
		return 2
	}
	return 1
}

func takeFish(ctx context.Context, repo *repository.FishRepository, rng duel.Rand, squad []models.Fish, from, to int64, n int) ([]models.Fish, error) {
	pool := append([]models.Fish(nil), squad...)
	var taken []models.Fish
	for i := 0; i < n && len(pool) > 0; i++ {
		j := rng.Intn(len(pool))
		f := pool[j]
		pool = append(pool[:j], pool[j+1:]...)
		if err := repo.Transfer(ctx, f.ID, from, to); err != nil {
			return nil, fmt.Errorf("transfer fish %d: %w", f.ID, err)
		}
		f.OwnerID, f.SquadSlot = to, nil
		taken = append(taken, f)
	}
	return taken, nil
}
