package gamedata

import (
	"errors"
	"fmt"

	"deepsea/internal/duel"
)

// Tier is one difficulty step of the mirror corridor.
type Tier struct {
	Tier        int     `yaml:"tier"`
	MaxStrength int     `yaml:"max_strength"` // 0 on the last tier: no upper bound
	GuardsR4    int     `yaml:"guards_r4"`
	GuardsR5    int     `yaml:"guards_r5"`
	Currency    int     `yaml:"currency"`
	Craft       int     `yaml:"craft"`
	Containers  float64 `yaml:"containers"`
	RareChance  float64 `yaml:"rare_chance"`
}

type Corridor struct {
	GuardName string   `yaml:"guard_name"`
	RareItem  string   `yaml:"rare_item"`
	Tiers     []Tier   `yaml:"tiers"`
	PoolR4    []string `yaml:"pool_r4"`
	PoolR5    []string `yaml:"pool_r5"`
}

// Validate checks the tier table is ordered and that both guard pools can fill any tier.
func (c *Corridor) Validate(cat *Catalogue) error {
	if len(c.Tiers) == 0 {
		return errors.New("corridor: no tiers")
	}
	maxR4, maxR5 := 0, 0
	prev := -1
	for i, t := range c.Tiers {
		last := i == len(c.Tiers)-1
		switch {
		case t.GuardsR4 < 0 || t.GuardsR5 < 0 || t.GuardsR4+t.GuardsR5 != duel.RosterSize:
			return fmt.Errorf("corridor tier %d: guards must add up to %d", t.Tier, duel.RosterSize)
		case !last && t.MaxStrength <= prev:
			return fmt.Errorf("corridor tier %d: thresholds must ascend", t.Tier)
		case last && t.MaxStrength != 0:
			return fmt.Errorf("corridor tier %d: last tier must be unbounded", t.Tier)
		case t.RareChance < 0 || t.RareChance > 1:
			return fmt.Errorf("corridor tier %d: rare_chance out of 0..1", t.Tier)
		case t.Containers < 0:
			return fmt.Errorf("corridor tier %d: negative containers", t.Tier)
		}
		prev = t.MaxStrength
		maxR4 = max(maxR4, t.GuardsR4)
		maxR5 = max(maxR5, t.GuardsR5)
	}
	if len(c.PoolR4) < maxR4 || len(c.PoolR5) < maxR5 {
		return fmt.Errorf("corridor: pools too small (%d/%d, need %d/%d)", len(c.PoolR4), len(c.PoolR5), maxR4, maxR5)
	}
	if err := checkPool(cat, c.PoolR4, 4); err != nil {
		return err
	}
	return checkPool(cat, c.PoolR5, 5)
}

func checkPool(cat *Catalogue, pool []string, rarity int) error {
	seen := map[string]bool{}
	for _, name := range pool {
		s, ok := cat.Lookup(name)
		if !ok {
			return fmt.Errorf("corridor: unknown species %q", name)
		}
		if s.Rarity != rarity {
			return fmt.Errorf("corridor: %q is rarity %d, pool wants %d", name, s.Rarity, rarity)
		}
		if seen[name] {
			return fmt.Errorf("corridor: %q repeated in pool", name)
		}
		seen[name] = true
	}
	return nil
}
