package application

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
	"deepsea/internal/models"
	"deepsea/internal/repository"
	"deepsea/internal/storage"

	"go.uber.org/zap"
)

type fixture struct {
	db       *sql.DB
	players  *PlayerService
	playerDB *repository.PlayerRepository
	fishDB   *repository.FishRepository
	fishing  *FishingService
	arena    *ArenaService
	corridor *CorridorService
	admin    *AdminService
}

const (
	adminVK   = 900
	testWhale = "Испытательный кит"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := storage.NewSQLite(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.RunMigrations(db, filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	data, err := gamedata.LoadAll(filepath.Join("..", "..", "assets"))
	if err != nil {
		t.Fatalf("load assets: %v", err)
	}
	// outcomes are decided by raw stats; the test whale always plays by weight
	data.Skills = duel.NewSkillBook([]duel.Skill{{
		Creature: testWhale,
		Aura:     &duel.Aura{Effects: []duel.Effect{{Kind: duel.EffectForceRule, Params: duel.Params{Stat: duel.StatWeight}}}},
	}})
	engine := duel.NewEngine(data.Skills)

	log := zap.NewNop()
	playerDB := repository.NewPlayerRepository(db)
	fishDB := repository.NewFishRepository(db)
	itemDB := repository.NewItemRepository(db)
	duelDB := repository.NewDuelRepository(db)
	locks := NewPlayerLocks()

	players := NewPlayerService(playerDB, fishDB, itemDB, duelDB)
	f := &fixture{
		db:       db,
		players:  players,
		playerDB: playerDB,
		fishDB:   fishDB,
		fishing:  NewFishingService(db, players, fishDB, data.Species, locks, log),
		arena:    NewArenaService(db, engine, players, playerDB, fishDB, duelDB, locks, 1000, log),
		corridor: NewCorridorService(db, engine, data, players, playerDB, fishDB, itemDB, duelDB, locks, log),
		admin:    NewAdminService(adminVK, players, log),
	}
	seeded := func() duel.Rand { return duel.NewRand(1) }
	f.fishing.newRand = seeded
	f.arena.newRand = seeded
	f.corridor.newRand = seeded
	return f
}

// squad registers vkID and gives it a full squad of identical fish.
func (f *fixture) squad(t *testing.T, vkID int64, species string, rarity, weight, value int) *models.Player {
	t.Helper()
	ctx := context.Background()
	p, err := f.players.GetOrCreateByVK(ctx, vkID)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	var ids []int64
	for i := 0; i < duel.RosterSize; i++ {
		id, err := f.fishDB.Add(ctx, &models.Fish{OwnerID: p.ID, Species: species, Rarity: rarity, Weight: weight, Value: value})
		if err != nil {
			t.Fatalf("add fish: %v", err)
		}
		ids = append(ids, id)
	}
	if _, err := f.fishing.SetSquad(ctx, vkID, ids); err != nil {
		t.Fatalf("set squad: %v", err)
	}
	return p
}

func (f *fixture) stones(t *testing.T, vkID int64) int {
	t.Helper()
	p, err := f.players.Find(context.Background(), vkID)
	if err != nil {
		t.Fatalf("find %d: %v", vkID, err)
	}
	return p.Stones
}

func TestPlayerService_GetOrCreateAndSchool(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1, err := f.players.GetOrCreateByVK(ctx, 7)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p2, err := f.players.GetOrCreateByVK(ctx, 7)
	if err != nil || p1.ID != p2.ID {
		t.Fatalf("get-or-create must be idempotent: %v %v", p1, err)
	}
	if p1.Stones != StartingStones {
		t.Fatalf("starting stones = %d", p1.Stones)
	}

	if _, err := f.players.Rename(ctx, 7, "x"); !errors.Is(err, ErrBadName) {
		t.Fatalf("expected ErrBadName, got %v", err)
	}
	if p, err := f.players.Rename(ctx, 7, "  Старый   Рыбак "); err != nil || p.Name != "Старый Рыбак" {
		t.Fatalf("rename: %v %v", p, err)
	}

	if fac, err := f.players.ChooseSchool(ctx, 7, "Тень"); err != nil || fac != duel.FactionShadow {
		t.Fatalf("choose school: %v %v", fac, err)
	}
	if _, err := f.players.ChooseSchool(ctx, 7, "огонь"); !errors.Is(err, ErrUnknownSchool) {
		t.Fatalf("expected ErrUnknownSchool, got %v", err)
	}
	prof, err := f.players.Profile(ctx, 7)
	if err != nil || prof.Faction != duel.FactionShadow || prof.SquadFull {
		t.Fatalf("profile: %+v %v", prof, err)
	}
}

func TestFishingService_CastCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f.fishing.now = func() time.Time { return now }

	fish, err := f.fishing.Cast(ctx, 5)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if fish.ID == 0 || fish.Rarity < 1 || fish.Rarity > 5 || fish.Weight < 1 {
		t.Fatalf("bad catch: %+v", fish)
	}

	_, err = f.fishing.Cast(ctx, 5)
	var cd *CooldownError
	if !errors.As(err, &cd) || cd.Left != CastCooldown {
		t.Fatalf("expected cooldown error, got %v", err)
	}

	now = now.Add(CastCooldown)
	if _, err := f.fishing.Cast(ctx, 5); err != nil {
		t.Fatalf("cast after cooldown: %v", err)
	}
	pond, _ := f.fishing.Pond(ctx, 5)
	if len(pond) != 2 {
		t.Fatalf("pond size = %d, want 2", len(pond))
	}
}

func TestFishingService_SetSquadValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.squad(t, 1, "Окунь", 2, 500, 30)
	other := f.squad(t, 2, "Окунь", 2, 500, 30)

	if _, err := f.fishing.SetSquad(ctx, 1, []int64{1, 2, 3}); !errors.Is(err, ErrSquadIncomplete) {
		t.Fatalf("expected ErrSquadIncomplete, got %v", err)
	}
	if _, err := f.fishing.SetSquad(ctx, 1, []int64{1, 1, 2, 3, 4}); !errors.Is(err, ErrDuplicateFish) {
		t.Fatalf("expected ErrDuplicateFish, got %v", err)
	}

	theirs, _ := f.fishDB.Squad(ctx, other.ID)
	ids := []int64{1, 2, 3, 4, theirs[0].ID}
	if _, err := f.fishing.SetSquad(ctx, 1, ids); !errors.Is(err, repository.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
	squad, _ := f.fishing.Squad(ctx, 1)
	if len(squad) != duel.RosterSize {
		t.Fatalf("failed squad change must roll back, squad size %d", len(squad))
	}
}

func TestArenaService_DecisiveWinPaysStakeAndTakesFish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.squad(t, 1, "Белуга", 5, 100000, 2000)
	f.squad(t, 2, "Пескарь", 1, 50, 5)

	out, err := f.arena.Challenge(ctx, 1, 2, 50)
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if out.Result.ScoreA != 5 || out.Winner == nil || out.Winner.VKID != 1 {
		t.Fatalf("expected a 5:0 win for the attacker, got %+v", out.Result)
	}
	if got := f.stones(t, 1); got != StartingStones+50 {
		t.Fatalf("winner stones = %d", got)
	}
	if got := f.stones(t, 2); got != StartingStones-50 {
		t.Fatalf("loser stones = %d", got)
	}
	if len(out.Taken) != 2 {
		t.Fatalf("a %d-point margin takes two fish, took %d", out.Result.Margin(), len(out.Taken))
	}
	pond, _ := f.fishing.Pond(ctx, 1)
	if len(pond) != 7 {
		t.Fatalf("winner pond = %d fish", len(pond))
	}
	hist, _ := f.players.History(ctx, 2, 5)
	if len(hist) != 1 || hist[0].Outcome != models.OutcomeWin || hist[0].Stake != 50 {
		t.Fatalf("history: %+v", hist)
	}
}

func TestArenaService_DrawRefunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.squad(t, 1, "Пескарь", 1, 50, 5)
	f.squad(t, 2, "Пескарь", 1, 50, 5)

	out, err := f.arena.Challenge(ctx, 1, 2, 100)
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if !out.Result.Draw || out.Winner != nil || len(out.Taken) != 0 {
		t.Fatalf("mirror squads must draw: %+v", out.Result)
	}
	if f.stones(t, 1) != StartingStones || f.stones(t, 2) != StartingStones {
		t.Fatalf("draw must refund both stakes")
	}
}

func TestArenaService_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.squad(t, 1, "Окунь", 2, 500, 30)

	if _, err := f.arena.Challenge(ctx, 1, 1, 0); !errors.Is(err, ErrSelfDuel) {
		t.Fatalf("expected ErrSelfDuel, got %v", err)
	}
	if _, err := f.arena.Challenge(ctx, 1, 2, 0); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
	if _, err := f.arena.Challenge(ctx, 1, 2, 5000); !errors.Is(err, ErrStakeTooHigh) {
		t.Fatalf("expected ErrStakeTooHigh, got %v", err)
	}
	if _, err := f.arena.Challenge(ctx, 1, 2, -1); !errors.Is(err, ErrBadStake) {
		t.Fatalf("expected ErrBadStake, got %v", err)
	}

	if _, err := f.players.GetOrCreateByVK(ctx, 2); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.arena.Challenge(ctx, 1, 2, 0); !errors.Is(err, ErrOpponentSquadIncomplete) {
		t.Fatalf("expected ErrOpponentSquadIncomplete, got %v", err)
	}

	f.squad(t, 2, "Окунь", 2, 500, 30)
	if _, err := f.arena.Challenge(ctx, 1, 2, 500); !errors.Is(err, ErrNotEnoughStones) {
		t.Fatalf("expected ErrNotEnoughStones, got %v", err)
	}
	if f.stones(t, 1) != StartingStones || f.stones(t, 2) != StartingStones {
		t.Fatalf("failed escrow must not move stones")
	}
}

func TestCorridorService_WinGrantsTierReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.squad(t, 1, testWhale, 5, 10000000, 1000000)

	st, tier, err := f.corridor.Preview(ctx, 1)
	if err != nil || st != 15 || tier.Tier != 4 {
		t.Fatalf("preview: %d %+v %v", st, tier, err)
	}

	out, err := f.corridor.Run(ctx, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Reward == nil {
		t.Fatalf("overwhelming squad should win:\n%s", out.Result.Text())
	}
	p, _ := f.players.Find(ctx, 1)
	if p.Stones != StartingStones+out.Reward.Currency || p.Craft != out.Reward.Craft || p.Containers != out.Reward.Containers {
		t.Fatalf("reward not granted: %+v vs %+v", p, out.Reward)
	}
	prof, _ := f.players.Profile(ctx, 1)
	if out.Reward.RareItem != "" && len(prof.Items) != 1 {
		t.Fatalf("rare item not stored")
	}
}

func TestCorridorService_LossGrantsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.squad(t, 1, "Пескарь", 1, 30, 5)

	out, err := f.corridor.Run(ctx, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Tier.Tier != 1 || out.Reward != nil {
		t.Fatalf("weak squad: tier %d reward %+v", out.Tier.Tier, out.Reward)
	}
	if f.stones(t, 1) != StartingStones {
		t.Fatalf("a loss must not pay")
	}
	hist, _ := f.players.History(ctx, 1, 5)
	if len(hist) != 1 || hist[0].Kind != models.DuelKindCorridor || hist[0].Outcome != models.OutcomeLoss {
		t.Fatalf("history: %+v", hist)
	}
}

func TestCorridorService_RequiresFullSquad(t *testing.T) {
	f := newFixture(t)
	if _, err := f.corridor.Run(context.Background(), 3); !errors.Is(err, ErrSquadIncomplete) {
		t.Fatalf("expected ErrSquadIncomplete, got %v", err)
	}
}

func TestAdminService_Grant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.players.GetOrCreateByVK(ctx, 3); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.admin.GrantStones(ctx, 3, 3, 1000); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	p, err := f.admin.GrantStones(ctx, adminVK, 3, 250)
	if err != nil || p.Stones != StartingStones+250 {
		t.Fatalf("grant: %+v %v", p, err)
	}
	if _, err := f.admin.GrantStones(ctx, adminVK, 3, -10000); !errors.Is(err, ErrNotEnoughStones) {
		t.Fatalf("expected ErrNotEnoughStones, got %v", err)
	}
}

func TestPlayerLocks_DistinctAndRepeated(t *testing.T) {
	l := NewPlayerLocks()
	unlock := l.Lock(2, 1, 2)
	done := make(chan struct{})
	go func() {
		u := l.Lock(1)
		u()
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("lock on 1 should be held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-done
}
