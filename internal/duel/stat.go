package duel

import (
	"fmt"
	"strings"
)

// Stat is one of the three comparison dimensions. A round's rule is a Stat.
type Stat int

const (
	StatNone Stat = iota
	StatRarity
	StatWeight
	StatValue
)

var allStats = [...]Stat{StatRarity, StatWeight, StatValue}

func (s Stat) String() string {
	switch s {
	case StatRarity:
		return "RARITY"
	case StatWeight:
		return "WEIGHT"
	case StatValue:
		return "VALUE"
	default:
		return "NONE"
	}
}

func (s Stat) Valid() bool {
	return s >= StatRarity && s <= StatValue
}

func ParseStat(raw string) (Stat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "rarity":
		return StatRarity, nil
	case "weight":
		return StatWeight, nil
	case "value":
		return StatValue, nil
	case "", "none":
		return StatNone, nil
	}
	return StatNone, fmt.Errorf("unknown stat %q", raw)
}

// Faction is the cultivation school of a combatant.
type Faction int

const (
	FactionNone Faction = iota
	FactionSword
	FactionSpirit
	FactionShadow
	FactionBody
)

type FactionBonus struct {
	StartEnergy int
	AuraChance  float64
	StealChance float64
}

var factionBonuses = map[Faction]FactionBonus{
	FactionNone:   {},
	FactionSword:  {StartEnergy: 1},
	FactionSpirit: {AuraChance: 0.10},
	FactionShadow: {StealChance: 0.15},
	FactionBody:   {StartEnergy: 2, AuraChance: -0.05},
}

var factionNames = map[Faction]string{
	FactionNone:   "none",
	FactionSword:  "sword",
	FactionSpirit: "spirit",
	FactionShadow: "shadow",
	FactionBody:   "body",
}

func (f Faction) String() string {
	if n, ok := factionNames[f]; ok {
		return n
	}
	return "none"
}

func (f Faction) Bonus() FactionBonus {
	return factionBonuses[f]
}

// ParseFaction maps a stored faction tag to the enum. Unknown tags fall back to FactionNone.
func ParseFaction(raw string) Faction {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for f, n := range factionNames {
		if n == raw {
			return f
		}
	}
	return FactionNone
}

func (s Stat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stat) UnmarshalText(b []byte) error {
	v, err := ParseStat(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (f Faction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Faction) UnmarshalText(b []byte) error {
	*f = ParseFaction(string(b))
	return nil
}
