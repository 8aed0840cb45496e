package gamedata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deepsea/internal/duel"

	"gopkg.in/yaml.v3"
)

func TestLoadAll_BundledAssets(t *testing.T) {
	data, err := LoadAll(filepath.Join("..", "..", "assets"))
	if err != nil {
		t.Fatalf("load bundled assets: %v", err)
	}
	if data.Skills.Len() == 0 {
		t.Fatalf("no skills loaded")
	}
	for _, name := range data.Skills.Names() {
		if _, ok := data.Species.Lookup(name); !ok {
			t.Fatalf("skill for unknown species %q", name)
		}
		sk := data.Skills.Lookup(name)
		if sk.Aura != nil {
			for _, ef := range sk.Aura.Effects {
				if !duel.KnownAuraEffect(ef.Kind) {
					t.Fatalf("%s: aura effect %q has no handler", name, ef.Kind)
				}
			}
		}
		if sk.Ultimate != nil {
			for _, ef := range sk.Ultimate.Effects {
				if !duel.KnownUltimateEffect(ef.Kind) {
					t.Fatalf("%s: ultimate effect %q has no handler", name, ef.Kind)
				}
			}
		}
	}
	if len(data.Corridor.Tiers) != 4 {
		t.Fatalf("expected 4 corridor tiers, got %d", len(data.Corridor.Tiers))
	}
}

func TestBuildSkillBook_ConvertsFields(t *testing.T) {
	src := `
skills:
  - creature: Щука
    title: Засада
    aura:
      trigger: {opp_rarity_lte: 3, chance: 0.5, rule_is: weight}
      effects:
        - {kind: debuff_opponent, stat: value, percent: 0.2, scope: next}
    ultimate:
      cost: {kind: all_min2}
      once_per_duel: true
      effects:
        - {kind: meteor}
`
	var f skillsFile
	if err := yaml.Unmarshal([]byte(src), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	book, err := BuildSkillBook(f.Skills)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sk := book.Lookup("Щука")
	if sk == nil || sk.Aura == nil || sk.Ultimate == nil {
		t.Fatalf("skill not converted: %+v", sk)
	}
	tr := sk.Aura.Trigger
	if tr.OppRarityLTE != 3 || tr.Chance != 0.5 || tr.RuleIs != duel.StatWeight {
		t.Fatalf("trigger = %+v", tr)
	}
	ef := sk.Aura.Effects[0]
	if ef.Params.Stat != duel.StatValue || ef.Params.Scope != duel.ScopeNext || ef.Params.Percent != 0.2 {
		t.Fatalf("effect = %+v", ef)
	}
	if sk.Ultimate.Cost.Kind != duel.CostAllMin2 || !sk.Ultimate.OncePerDuel {
		t.Fatalf("ultimate = %+v", sk.Ultimate)
	}
	if sk.Ultimate.Effects[0].Kind != "meteor" {
		t.Fatalf("unknown effect kinds must be kept for the engine to skip")
	}
}

func TestBuildSkillBook_RejectsBadDefinitions(t *testing.T) {
	cases := map[string][]SkillDef{
		"bad stat":   {{Creature: "x", Aura: &AuraDef{Effects: []EffectDef{{Kind: "buff_self", Stat: "speed"}}}}},
		"bad scope":  {{Creature: "x", Aura: &AuraDef{Effects: []EffectDef{{Kind: "buff_self", Stat: "value", Scope: "forever"}}}}},
		"bad cost":   {{Creature: "x", Ultimate: &UltimateDef{Cost: CostDef{Kind: "half"}}}},
		"bad rule":   {{Creature: "x", Aura: &AuraDef{Trigger: TriggerDef{RuleIs: "luck"}}}},
		"duplicate":  {{Creature: "x"}, {Creature: "x"}},
		"no subject": {{Title: "orphan"}},
	}
	for name, defs := range cases {
		if _, err := BuildSkillBook(defs); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestCatalogue_PickHonoursWeights(t *testing.T) {
	cat, err := NewCatalogue([]Species{
		{Name: "a", Rarity: 1, MinWeight: 1, MaxWeight: 2, Value: 1},
		{Name: "b", Rarity: 5, MinWeight: 1, MaxWeight: 2, Value: 1},
	}, map[int]int{1: 3, 5: 1, 4: 10})
	if err != nil {
		t.Fatalf("catalogue: %v", err)
	}
	rng := duel.NewRand(7)
	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		counts[cat.Pick(rng).Name]++
	}
	if counts["a"] < 2700 || counts["a"] > 3300 {
		t.Fatalf("rarity 1 share off: %v", counts)
	}
	if len(cat.OfRarity(4)) != 0 {
		t.Fatalf("weights for empty rarities must be ignored")
	}
}

func TestCorridorValidate(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write(SkillsFile, "skills: []\n")
	write(SpeciesFile, `
catch_weights: {4: 1}
species:
  - {name: r4, rarity: 4, min_weight: 1, max_weight: 1, value: 1}
`)
	write(CorridorFile, `
tiers:
  - {tier: 1, max_strength: 0, guards_r4: 5, guards_r5: 0, currency: 1}
pool_r4: [r4]
pool_r5: []
`)
	_, err := LoadAll(dir)
	if err == nil || !strings.Contains(err.Error(), "pools too small") {
		t.Fatalf("expected pool size error, got %v", err)
	}
}
