package gamedata

import (
	"fmt"
	"strings"

	"deepsea/internal/duel"
)

type skillsFile struct {
	Skills []SkillDef `yaml:"skills"`
}

type SkillDef struct {
	Creature string       `yaml:"creature"`
	Title    string       `yaml:"title"`
	Aura     *AuraDef     `yaml:"aura"`
	Ultimate *UltimateDef `yaml:"ultimate"`
}

type TriggerDef struct {
	OppRarityLTE  int     `yaml:"opp_rarity_lte"`
	OppRarityGTE  int     `yaml:"opp_rarity_gte"`
	SelfRarityGTE int     `yaml:"self_rarity_gte"`
	RuleIs        string  `yaml:"rule_is"`
	Chance        float64 `yaml:"chance"`
	FirstSlot     bool    `yaml:"first_slot"`
	LastSlot      bool    `yaml:"last_slot"`
	FinalRounds   int     `yaml:"final_rounds"`
	MinEnergy     int     `yaml:"min_energy"`
	Behind        bool    `yaml:"behind"`
}

type EffectDef struct {
	Kind    string  `yaml:"kind"`
	Stat    string  `yaml:"stat"`
	Percent float64 `yaml:"percent"`
	Flat    int     `yaml:"flat"`
	Amount  int     `yaml:"amount"`
	Chance  float64 `yaml:"chance"`
	Scope   string  `yaml:"scope"`
}

type AuraDef struct {
	Trigger     TriggerDef  `yaml:"trigger"`
	DodgeChance float64     `yaml:"dodge_chance"`
	Effects     []EffectDef `yaml:"effects"`
}

type CostDef struct {
	Kind   string `yaml:"kind"` // fixed | all | all_min2
	Amount int    `yaml:"amount"`
}

type UltimateDef struct {
	Cost        CostDef     `yaml:"cost"`
	Trigger     TriggerDef  `yaml:"trigger"`
	OncePerDuel bool        `yaml:"once_per_duel"`
	Effects     []EffectDef `yaml:"effects"`
}

// BuildSkillBook converts yaml definitions into the engine's skill table.
// Malformed stats, scopes and costs are rejected; unknown effect kinds pass
// through and are skipped by the engine when they fire.
func BuildSkillBook(defs []SkillDef) (*duel.SkillBook, error) {
	seen := make(map[string]bool, len(defs))
	skills := make([]duel.Skill, 0, len(defs))
	for _, d := range defs {
		if d.Creature == "" {
			return nil, fmt.Errorf("skill %q: empty creature", d.Title)
		}
		if seen[d.Creature] {
			return nil, fmt.Errorf("skill for %q defined twice", d.Creature)
		}
		seen[d.Creature] = true

		s := duel.Skill{Creature: d.Creature, Title: d.Title}
		if d.Aura != nil {
			a, err := d.Aura.build()
			if err != nil {
				return nil, fmt.Errorf("%s aura: %w", d.Creature, err)
			}
			s.Aura = a
		}
		if d.Ultimate != nil {
			u, err := d.Ultimate.build()
			if err != nil {
				return nil, fmt.Errorf("%s ultimate: %w", d.Creature, err)
			}
			s.Ultimate = u
		}
		skills = append(skills, s)
	}
	return duel.NewSkillBook(skills), nil
}

func (a *AuraDef) build() (*duel.Aura, error) {
	tr, err := a.Trigger.build()
	if err != nil {
		return nil, err
	}
	effects, err := buildEffects(a.Effects)
	if err != nil {
		return nil, err
	}
	return &duel.Aura{Trigger: tr, DodgeChance: a.DodgeChance, Effects: effects}, nil
}

func (u *UltimateDef) build() (*duel.Ultimate, error) {
	tr, err := u.Trigger.build()
	if err != nil {
		return nil, err
	}
	cost, err := u.Cost.build()
	if err != nil {
		return nil, err
	}
	effects, err := buildEffects(u.Effects)
	if err != nil {
		return nil, err
	}
	return &duel.Ultimate{Cost: cost, Trigger: tr, OncePerDuel: u.OncePerDuel, Effects: effects}, nil
}

func (t TriggerDef) build() (duel.Trigger, error) {
	rule, err := duel.ParseStat(t.RuleIs)
	if err != nil {
		return duel.Trigger{}, fmt.Errorf("rule_is: %w", err)
	}
	return duel.Trigger{
		OppRarityLTE:  t.OppRarityLTE,
		OppRarityGTE:  t.OppRarityGTE,
		SelfRarityGTE: t.SelfRarityGTE,
		RuleIs:        rule,
		Chance:        t.Chance,
		FirstSlot:     t.FirstSlot,
		LastSlot:      t.LastSlot,
		FinalRounds:   t.FinalRounds,
		MinEnergy:     t.MinEnergy,
		Behind:        t.Behind,
	}, nil
}

func (c CostDef) build() (duel.Cost, error) {
	switch strings.ToLower(c.Kind) {
	case "", "fixed":
		if c.Amount < 0 {
			return duel.Cost{}, fmt.Errorf("negative cost %d", c.Amount)
		}
		return duel.Cost{Kind: duel.CostFixed, Amount: c.Amount}, nil
	case "all":
		return duel.Cost{Kind: duel.CostAll}, nil
	case "all_min2":
		return duel.Cost{Kind: duel.CostAllMin2}, nil
	}
	return duel.Cost{}, fmt.Errorf("unknown cost kind %q", c.Kind)
}

func buildEffects(defs []EffectDef) ([]duel.Effect, error) {
	out := make([]duel.Effect, 0, len(defs))
	for _, e := range defs {
		stat, err := duel.ParseStat(e.Stat)
		if err != nil {
			return nil, fmt.Errorf("effect %s: %w", e.Kind, err)
		}
		scope, err := parseScope(e.Scope)
		if err != nil {
			return nil, fmt.Errorf("effect %s: %w", e.Kind, err)
		}
		out = append(out, duel.Effect{
			Kind: duel.EffectKind(e.Kind),
			Params: duel.Params{
				Stat:    stat,
				Percent: e.Percent,
				Flat:    e.Flat,
				Amount:  e.Amount,
				Chance:  e.Chance,
				Scope:   scope,
			},
		})
	}
	return out, nil
}

func parseScope(raw string) (duel.Scope, error) {
	switch strings.ToLower(raw) {
	case "", "round":
		return duel.ScopeRound, nil
	case "permanent":
		return duel.ScopePermanent, nil
	case "next":
		return duel.ScopeNext, nil
	}
	return duel.ScopeRound, fmt.Errorf("unknown scope %q", raw)
}
