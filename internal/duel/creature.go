package duel

import (
	"fmt"
	"math"
	"slices"
)

// Modifier changes one stat: value*(1+Percent) + Flat.
type Modifier struct {
	Stat    Stat
	Percent float64
	Flat    int
}

func (m Modifier) String() string {
	switch {
	case m.Percent != 0 && m.Flat != 0:
		return fmt.Sprintf("%s %+.0f%% %+d", m.Stat, m.Percent*100, m.Flat)
	case m.Flat != 0:
		return fmt.Sprintf("%s %+d", m.Stat, m.Flat)
	default:
		return fmt.Sprintf("%s %+.0f%%", m.Stat, m.Percent*100)
	}
}

type EndOfRoundKind int

const (
	EndGrantEnergy EndOfRoundKind = iota + 1
	EndDrainOpponent
)

type EndOfRoundEffect struct {
	Kind   EndOfRoundKind
	Amount int
}

type Creature struct {
	Name string
	Slot int

	BaseRarity int
	BaseWeight int
	BaseValue  int

	Rarity int
	Weight int
	Value  int

	Skill *Skill

	AuraDisabled     bool
	UltimateDisabled bool
	AuraDodge        bool

	PermanentBuffs   []Modifier
	PermanentDebuffs []Modifier
	TurnBuffs        []Modifier
	TurnDebuffs      []Modifier
	EndOfRound       []EndOfRoundEffect
}

func newCreature(spec CreatureSpec, slot int, rng Rand, book *SkillBook) *Creature {
	c := &Creature{
		Name:       spec.Name,
		Slot:       slot,
		BaseRarity: spec.Rarity,
		BaseWeight: rollWeight(spec.MinWeight, spec.MaxWeight, rng),
		BaseValue:  spec.Value,
		Skill:      book.Lookup(spec.Name),
	}
	c.Rarity, c.Weight, c.Value = c.BaseRarity, c.BaseWeight, c.BaseValue
	return c
}

func rollWeight(lo, hi int, rng Rand) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func (c *Creature) Get(s Stat) int {
	switch s {
	case StatRarity:
		return c.Rarity
	case StatWeight:
		return c.Weight
	case StatValue:
		return c.Value
	}
	return 0
}

func (c *Creature) Set(s Stat, v int) {
	if v < 1 {
		v = 1
	}
	switch s {
	case StatRarity:
		c.Rarity = v
	case StatWeight:
		c.Weight = v
	case StatValue:
		c.Value = v
	}
}

func (c *Creature) apply(m Modifier) {
	if !m.Stat.Valid() {
		return
	}
	v := float64(c.Get(m.Stat)) * (1 + m.Percent)
	c.Set(m.Stat, int(math.Round(v))+m.Flat)
}

// reset rebuilds current stats from base, re-applies permanent modifiers and
// consumes the queued turn modifiers.
func (c *Creature) reset() {
	c.Rarity, c.Weight, c.Value = c.BaseRarity, c.BaseWeight, c.BaseValue
	for _, m := range c.PermanentBuffs {
		c.apply(m)
	}
	for _, m := range c.PermanentDebuffs {
		c.apply(m)
	}
	for _, m := range c.TurnBuffs {
		c.apply(m)
	}
	for _, m := range c.TurnDebuffs {
		c.apply(m)
	}
	c.TurnBuffs = nil
	c.TurnDebuffs = nil
}

// cleanse drops every debuff and rebuilds current stats.
func (c *Creature) cleanse() {
	c.PermanentDebuffs = nil
	c.TurnDebuffs = nil
	c.Rarity, c.Weight, c.Value = c.BaseRarity, c.BaseWeight, c.BaseValue
	for _, m := range c.PermanentBuffs {
		c.apply(m)
	}
}

func (c *Creature) clone() Creature {
	cp := *c
	cp.PermanentBuffs = slices.Clone(c.PermanentBuffs)
	cp.PermanentDebuffs = slices.Clone(c.PermanentDebuffs)
	cp.TurnBuffs = slices.Clone(c.TurnBuffs)
	cp.TurnDebuffs = slices.Clone(c.TurnDebuffs)
	cp.EndOfRound = slices.Clone(c.EndOfRound)
	return cp
}

func (c *Creature) label() string {
	return fmt.Sprintf("%s (★%d, %d г, %d)", c.Name, c.Rarity, c.Weight, c.Value)
}
