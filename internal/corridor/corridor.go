// Package corridor maps a squad to a mirror-corridor difficulty tier, builds the
// guard roster for that tier and rolls the reward bundle after a win.
package corridor

import (
	"fmt"
	"math"

	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
)

// GuardIDPrefix marks synthetic guard combatants, e.g. "guard:3".
const GuardIDPrefix = "guard:"

// Strength scores a squad: rarity-5 creatures count three, everything else one.
func Strength(rarities []int) int {
	s := 0
	for _, r := range rarities {
		if r >= 5 {
			s += 3
		} else {
			s++
		}
	}
	return s
}

// TierFor picks the first tier whose threshold covers strength. It depends only on
// the rarity composition, never on randomness.
func TierFor(c *gamedata.Corridor, strength int) gamedata.Tier {
	for _, t := range c.Tiers {
		if t.MaxStrength == 0 || strength <= t.MaxStrength {
			return t
		}
	}
	return c.Tiers[len(c.Tiers)-1]
}

// Guards builds the guard roster for tier, sampling species without replacement
// from both pools and shuffling the final order.
func Guards(c *gamedata.Corridor, cat *gamedata.Catalogue, tier gamedata.Tier, rng duel.Rand) (duel.RosterSpec, error) {
	var names []string
	names = append(names, sample(c.PoolR4, tier.GuardsR4, rng)...)
	names = append(names, sample(c.PoolR5, tier.GuardsR5, rng)...)
	for i := len(names) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		names[i], names[j] = names[j], names[i]
	}

	spec := duel.RosterSpec{
		ID:   fmt.Sprintf("%s%d", GuardIDPrefix, tier.Tier),
		Name: c.GuardName,
	}
	if spec.Name == "" {
		spec.Name = "Страж"
	}
	for _, n := range names {
		s, ok := cat.Lookup(n)
		if !ok {
			return duel.RosterSpec{}, fmt.Errorf("guard species %q not in catalogue", n)
		}
		spec.Creatures = append(spec.Creatures, s.CreatureSpec())
	}
	if len(spec.Creatures) != duel.RosterSize {
		return duel.RosterSpec{}, fmt.Errorf("tier %d yields %d guards: %w", tier.Tier, len(spec.Creatures), duel.ErrRosterSize)
	}
	return spec, nil
}

func sample(pool []string, n int, rng duel.Rand) []string {
	if n <= 0 {
		return nil
	}
	cp := append([]string(nil), pool...)
	if n > len(cp) {
		n = len(cp)
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}
	return cp[:n]
}

type Reward struct {
	Currency   int
	Craft      int
	Containers int
	RareItem   string
}

// Roll turns the tier reward table into a concrete bundle. Fractional containers
// round up with probability equal to the fraction.
func Roll(c *gamedata.Corridor, tier gamedata.Tier, rng duel.Rand) Reward {
	r := Reward{Currency: tier.Currency, Craft: tier.Craft}

	whole, frac := math.Modf(tier.Containers)
	r.Containers = int(whole)
	if frac > 0 && rng.Float64() < frac {
		r.Containers++
	}
	if tier.RareChance > 0 && rng.Float64() < tier.RareChance {
		r.RareItem = c.RareItem
	}
	return r
}
