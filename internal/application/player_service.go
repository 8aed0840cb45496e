package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"deepsea/internal/duel"
	"deepsea/internal/models"
	"deepsea/internal/repository"
)

// StartingStones is the balance of a freshly registered player.
const StartingStones = 100

const (
	minNameLen = 2
	maxNameLen = 32
)

var schoolAliases = map[string]duel.Faction{
	"меч":  duel.FactionSword,
	"дух":  duel.FactionSpirit,
	"тень": duel.FactionShadow,
	"тело": duel.FactionBody,
	"нет":  duel.FactionNone,
}

type Profile struct {
	Player    *models.Player
	PondSize  int
	Squad     []models.Fish
	Items     []models.Item
	Faction   duel.Faction
	SquadFull bool
}

type PlayerService struct {
	players *repository.PlayerRepository
	fish    *repository.FishRepository
	items   *repository.ItemRepository
	duels   *repository.DuelRepository
}

func NewPlayerService(
	players *repository.PlayerRepository,
	fish *repository.FishRepository,
	items *repository.ItemRepository,
	duels *repository.DuelRepository,
) *PlayerService {
	return &PlayerService{players: players, fish: fish, items: items, duels: duels}
}

func (s *PlayerService) GetOrCreateByVK(ctx context.Context, vkID int64) (*models.Player, error) {
	p, err := s.players.GetByVKID(ctx, vkID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	p = &models.Player{
		VKID:    vkID,
		Name:    fmt.Sprintf("Рыбак %d", vkID),
		Faction: duel.FactionNone.String(),
		Stones:  StartingStones,
	}
	id, err := s.players.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.players.GetByID(ctx, id)
}

// Find returns a registered player or ErrUnknownPlayer.
func (s *PlayerService) Find(ctx context.Context, vkID int64) (*models.Player, error) {
	p, err := s.players.GetByVKID(ctx, vkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownPlayer
	}
	return p, err
}

func (s *PlayerService) Rename(ctx context.Context, vkID int64, name string) (*models.Player, error) {
	name = strings.Join(strings.Fields(name), " ")
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return nil, fmt.Errorf("%w: %d..%d characters", ErrBadName, minNameLen, maxNameLen)
	}
	p, err := s.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}
	if err := s.players.UpdateName(ctx, p.ID, name); err != nil {
		return nil, err
	}
	p.Name = name
	return p, nil
}

// ParseSchool accepts both the stored tag (sword, spirit...) and the Russian name.
func ParseSchool(raw string) (duel.Faction, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if f, ok := schoolAliases[raw]; ok {
		return f, nil
	}
	f := duel.ParseFaction(raw)
	if f == duel.FactionNone && raw != duel.FactionNone.String() {
		return duel.FactionNone, fmt.Errorf("%w: %q", ErrUnknownSchool, raw)
	}
	return f, nil
}

func (s *PlayerService) ChooseSchool(ctx context.Context, vkID int64, raw string) (duel.Faction, error) {
	f, err := ParseSchool(raw)
	if err != nil {
		return duel.FactionNone, err
	}
	p, err := s.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return duel.FactionNone, err
	}
	return f, s.players.UpdateFaction(ctx, p.ID, f.String())
}

func (s *PlayerService) Profile(ctx context.Context, vkID int64) (*Profile, error) {
	p, err := s.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}
	pond, err := s.fish.Count(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	squad, err := s.fish.Squad(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.List(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Player:    p,
		PondSize:  pond,
		Squad:     squad,
		Items:     items,
		Faction:   duel.ParseFaction(p.Faction),
		SquadFull: len(squad) == duel.RosterSize,
	}, nil
}

// History lists the player's latest duels, newest first.
func (s *PlayerService) History(ctx context.Context, vkID int64, limit int) ([]models.DuelRecord, error) {
	p, err := s.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		return nil, err
	}
	return s.duels.ListForPlayer(ctx, p.ID, limit)
}

// GrantStones adds amount to the player's balance; negative amounts debit without going below zero.
func (s *PlayerService) GrantStones(ctx context.Context, vkID int64, amount int) (*models.Player, error) {
	p, err := s.Find(ctx, vkID)
	if err != nil {
		return nil, err
	}
	if err := s.players.AddStones(ctx, p.ID, amount); err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrNotEnoughStones
		}
		return nil, err
	}
	return s.players.GetByID(ctx, p.ID)
}
