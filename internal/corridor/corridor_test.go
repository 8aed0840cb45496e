package corridor

import (
	"path/filepath"
	"strings"
	"testing"

	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
)

func loadData(t *testing.T) *gamedata.Data {
	t.Helper()
	data, err := gamedata.LoadAll(filepath.Join("..", "..", "assets"))
	if err != nil {
		t.Fatalf("load assets: %v", err)
	}
	return data
}

type fixedRand struct{ f float64 }

func (r fixedRand) Intn(int) int { return 0 }
func (r fixedRand) Float64() float64 { return r.f }

func TestTierFor_IsPureFunctionOfComposition(t *testing.T) {
	data := loadData(t)
	cases := []struct {
		rarities []int
		tier     int
	}{
		{[]int{1, 1, 1, 1, 1}, 1},
		{[]int{5, 4, 3, 2, 1}, 1},
		{[]int{5, 5, 4, 4, 4}, 2},
		{[]int{5, 5, 5, 4, 4}, 3},
		{[]int{5, 5, 5, 5, 4}, 3},
		{[]int{5, 5, 5, 5, 5}, 4},
	}
	for _, tc := range cases {
		got := TierFor(data.Corridor, Strength(tc.rarities))
		if got.Tier != tc.tier {
			t.Fatalf("%v (strength %d): tier %d, want %d", tc.rarities, Strength(tc.rarities), got.Tier, tc.tier)
		}
		again := TierFor(data.Corridor, Strength([]int{tc.rarities[4], tc.rarities[3], tc.rarities[2], tc.rarities[1], tc.rarities[0]}))
		if again != got {
			t.Fatalf("%v: order changed the tier", tc.rarities)
		}
	}
}

func TestGuards_CompositionMatchesTier(t *testing.T) {
	data := loadData(t)
	for _, tier := range data.Corridor.Tiers {
		for seed := int64(1); seed <= 20; seed++ {
			spec, err := Guards(data.Corridor, data.Species, tier, duel.NewRand(seed))
			if err != nil {
				t.Fatalf("tier %d: %v", tier.Tier, err)
			}
			if !strings.HasPrefix(spec.ID, GuardIDPrefix) {
				t.Fatalf("guard id %q", spec.ID)
			}
			r4, r5 := 0, 0
			seen := map[string]bool{}
			for _, c := range spec.Creatures {
				if seen[c.Name] {
					t.Fatalf("tier %d seed %d: %s sampled twice", tier.Tier, seed, c.Name)
				}
				seen[c.Name] = true
				switch c.Rarity {
				case 4:
					r4++
				case 5:
					r5++
				}
			}
			if r4 != tier.GuardsR4 || r5 != tier.GuardsR5 {
				t.Fatalf("tier %d: got %d/%d guards, want %d/%d", tier.Tier, r4, r5, tier.GuardsR4, tier.GuardsR5)
			}
		}
	}
}

func TestGuards_FightThroughEngine(t *testing.T) {
	data := loadData(t)
	tier := TierFor(data.Corridor, 12)
	rng := duel.NewRand(99)
	guards, err := Guards(data.Corridor, data.Species, tier, rng)
	if err != nil {
		t.Fatalf("guards: %v", err)
	}
	player := guards
	player.ID, player.Name = "vk:1", "Игрок"

	res, err := duel.NewEngine(data.Skills).Run(rng, player, guards)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Log) == 0 {
		t.Fatalf("empty battle log")
	}
}

func TestRoll_StochasticContainers(t *testing.T) {
	c := &gamedata.Corridor{RareItem: "Жемчуг бездны"}
	tier := gamedata.Tier{Currency: 600, Craft: 2, Containers: 1.5, RareChance: 0.02}

	low := Roll(c, tier, fixedRand{f: 0.01})
	if low.Containers != 2 || low.RareItem != "Жемчуг бездны" {
		t.Fatalf("low roll: %+v", low)
	}
	high := Roll(c, tier, fixedRand{f: 0.99})
	if high.Containers != 1 || high.RareItem != "" {
		t.Fatalf("high roll: %+v", high)
	}
	if high.Currency != 600 || high.Craft != 2 {
		t.Fatalf("fixed rewards changed: %+v", high)
	}
}
