package duel

import "fmt"

// BaseEnergy is the starting energy of every combatant before the faction bonus.
const BaseEnergy = 1

// RosterSize is the exact number of creatures each side brings to a duel.
const RosterSize = 5

type CreatureSpec struct {
	Name      string `json:"name"`
	Rarity    int    `json:"rarity"`
	MinWeight int    `json:"min_weight"`
	MaxWeight int    `json:"max_weight"`
	Value     int    `json:"value"`
}

func (c CreatureSpec) validate() error {
	switch {
	case !rarityInRange(c.Rarity):
		return fmt.Errorf("%w: %s rarity %d", ErrBadCreature, c.Name, c.Rarity)
	case c.MinWeight < 0 || c.MaxWeight < c.MinWeight:
		return fmt.Errorf("%w: %s weight %d..%d", ErrBadCreature, c.Name, c.MinWeight, c.MaxWeight)
	case c.Value < 0:
		return fmt.Errorf("%w: %s value %d", ErrBadCreature, c.Name, c.Value)
	}
	return nil
}

type RosterSpec struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Faction   Faction        `json:"faction"`
	Creatures []CreatureSpec `json:"creatures"`
}

type Combatant struct {
	ID      string
	Name    string
	Faction Faction

	Score  int
	Energy int
	Roster []*Creature

	AuraChance  float64
	StealChance float64
	LastSpent   int
	RerollUsed  bool
}

func newCombatant(spec RosterSpec, rng Rand, book *SkillBook) *Combatant {
	bonus := spec.Faction.Bonus()
	c := &Combatant{
		ID:          spec.ID,
		Name:        spec.Name,
		Faction:     spec.Faction,
		Energy:      BaseEnergy + bonus.StartEnergy,
		AuraChance:  bonus.AuraChance,
		StealChance: bonus.StealChance,
	}
	if c.Energy < 0 {
		c.Energy = 0
	}
	c.Roster = make([]*Creature, len(spec.Creatures))
	for i, cs := range spec.Creatures {
		c.Roster[i] = newCreature(cs, i, rng, book)
	}
	return c
}

func (c *Combatant) addEnergy(n int) {
	c.Energy += n
	if c.Energy < 0 {
		c.Energy = 0
	}
}

// takeEnergy removes up to n energy and returns how much was actually removed.
func (c *Combatant) takeEnergy(n int) int {
	if n <= 0 {
		return 0
	}
	if n > c.Energy {
		n = c.Energy
	}
	c.Energy -= n
	return n
}

// next returns the roster member after slot, or nil for the last slot.
func (c *Combatant) next(slot int) *Creature {
	if slot+1 >= len(c.Roster) {
		return nil
	}
	return c.Roster[slot+1]
}

// energyGain is the per-round energy generated by a creature of the given rarity.
func energyGain(rarity int) int {
	switch {
	case rarity >= 5:
		return 3
	case rarity == 4:
		return 2
	case rarity == 3:
		return 1
	default:
		return 0
	}
}
