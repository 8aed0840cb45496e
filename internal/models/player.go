package models

import "time"

type Player struct {
	ID         int64
	VKID       int64
	Name       string
	Faction    string
	Stones     int
	Craft      int
	Containers int
	CreatedAt  time.Time
}

// Fish is one caught specimen. SquadSlot is 0..4 while the fish fights in the squad.
type Fish struct {
	ID        int64
	OwnerID   int64
	Species   string
	Rarity    int
	Weight    int
	Value     int
	SquadSlot *int
	CaughtAt  time.Time
}

func (f Fish) InSquad() bool { return f.SquadSlot != nil }

type Item struct {
	ID      int64
	OwnerID int64
	Name    string
	Qty     int
}

const (
	DuelKindArena    = "arena"
	DuelKindCorridor = "corridor"

	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

// DuelRecord is a stored battle report. Outcome is from the attacker's side.
type DuelRecord struct {
	ID           int64
	Kind         string
	AttackerID   int64
	DefenderID   *int64
	DefenderName string
	Outcome      string
	Special      bool
	ScoreA       int
	ScoreB       int
	Stake        int
	Log          string
	CreatedAt    time.Time
}
