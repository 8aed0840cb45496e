package application

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
	"deepsea/internal/models"
	"deepsea/internal/repository"
	"deepsea/internal/storage"

	"go.uber.org/zap"
)

// CastCooldown is the pause between two casts of one player.
const CastCooldown = 30 * time.Second

type FishingService struct {
	db      *sql.DB
	players *PlayerService
	fish    *repository.FishRepository
	catalog *gamedata.Catalogue
	locks   *PlayerLocks
	logger  *zap.Logger

	newRand RandFactory
	now     func() time.Time

	castMu   sync.Mutex
	lastCast map[int64]time.Time
}

func NewFishingService(
	db *sql.DB,
	players *PlayerService,
	fish *repository.FishRepository,
	catalog *gamedata.Catalogue,
	locks *PlayerLocks,
	logger *zap.Logger,
) *FishingService {
	return &FishingService{
		db:       db,
		players:  players,
		fish:     fish,
		catalog:  catalog,
		locks:    locks,
		logger:   logger,
		newRand:  defaultRand,
		now:      time.Now,
		lastCast: map[int64]time.Time{},
	}
}

// Cast catches one fish: rarity by catch weight, weight inside the species range.
func (s *FishingService) Cast(ctx context.Context, vkID int64) (*models.Fish, error) {
	if err := s.takeCastSlot(vkID); err != nil {
		return nil, err
	}
	p, err := s.players.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}

	rng := s.newRand()
	sp := s.catalog.Pick(rng)
	f := &models.Fish{
		OwnerID: p.ID,
		Species: sp.Name,
		Rarity:  sp.Rarity,
		Weight:  sp.MinWeight + rng.Intn(sp.MaxWeight-sp.MinWeight+1),
		Value:   sp.Value,
	}
	id, err := s.fish.Add(ctx, f)
	if err != nil {
		return nil, err
	}
	f.ID = id
	s.logger.Debug("fish caught",
		zap.Int64("vk_id", vkID),
		zap.String("species", f.Species),
		zap.Int("rarity", f.Rarity),
		zap.Int("weight", f.Weight),
	)
	return f, nil
}

func (s *FishingService) takeCastSlot(vkID int64) error {
	s.castMu.Lock()
	defer s.castMu.Unlock()
	now := s.now()
	if last, ok := s.lastCast[vkID]; ok {
		if left := CastCooldown - now.Sub(last); left > 0 {
			return &CooldownError{Left: left}
		}
	}
	s.lastCast[vkID] = now
	return nil
}

func (s *FishingService) Pond(ctx context.Context, vkID int64) ([]models.Fish, error) {
	p, err := s.players.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}
	return s.fish.ListByOwner(ctx, p.ID)
}

func (s *FishingService) Squad(ctx context.Context, vkID int64) ([]models.Fish, error) {
	p, err := s.players.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}
	return s.fish.Squad(ctx, p.ID)
}

// SetSquad replaces the squad with exactly five distinct owned fish, in the given order.
func (s *FishingService) SetSquad(ctx context.Context, vkID int64, ids []int64) ([]models.Fish, error) {
	if len(ids) != duel.RosterSize {
		return nil, ErrSquadIncomplete
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			return nil, ErrDuplicateFish
		}
		seen[id] = true
	}
	p, err := s.players.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(p.ID)
	defer unlock()

	err = storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.fish.WithTx(tx).SetSquad(ctx, p.ID, ids)
	})
	if err != nil {
		return nil, err
	}
	return s.fish.Squad(ctx, p.ID)
}
