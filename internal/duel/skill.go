package duel

import "sort"

type EffectKind string

const (
	EffectForceRule      EffectKind = "force_rule"
	EffectForceDraw      EffectKind = "force_draw"
	EffectWinRound       EffectKind = "win_round"
	EffectBuffSelf       EffectKind = "buff_self"
	EffectDebuffOpponent EffectKind = "debuff_opponent"
	EffectTeamBuff       EffectKind = "team_buff"
	EffectGrantEnergy    EffectKind = "grant_energy"
	EffectStealEnergy    EffectKind = "steal_energy"
	EffectDrainEnergy    EffectKind = "drain_energy"
	EffectDelayedEnergy  EffectKind = "delayed_energy"
	EffectDelayedDrain   EffectKind = "delayed_drain"
	EffectSealAura       EffectKind = "seal_aura"
	EffectSealUltimate   EffectKind = "seal_ultimate"
	EffectAuraChance     EffectKind = "aura_chance"
	EffectCopyStat       EffectKind = "copy_stat"
	EffectSwapStat       EffectKind = "swap_stat"
	EffectRerollRound    EffectKind = "reroll_round"
	EffectInstantWin     EffectKind = "instant_win"
	EffectScaleByEnergy  EffectKind = "scale_by_energy"
	EffectGuardNext      EffectKind = "guard_next"
	EffectCleanse        EffectKind = "cleanse"
)

// Scope says how long a stat modifier lives.
type Scope int

const (
	ScopeRound Scope = iota
	ScopePermanent
	ScopeNext
)

type Params struct {
	Stat    Stat
	Percent float64
	Flat    int
	Amount  int
	Chance  float64
	Scope   Scope
}

type Effect struct {
	Kind   EffectKind
	Params Params
}

type CostKind int

const (
	CostFixed CostKind = iota
	CostAll
	CostAllMin2
)

type Cost struct {
	Kind   CostKind
	Amount int
}

// resolve returns the energy an ultimate would spend given the current
// energy, and whether it is affordable at all.
func (c Cost) resolve(energy int) (int, bool) {
	switch c.Kind {
	case CostAll:
		return energy, energy >= 1
	case CostAllMin2:
		return energy, energy >= 2
	default:
		if c.Amount < 0 {
			return 0, false
		}
		return c.Amount, energy >= c.Amount
	}
}

// Trigger lists conditions that must all hold. Zero values mean "not set".
type Trigger struct {
	OppRarityLTE  int
	OppRarityGTE  int
	SelfRarityGTE int
	RuleIs        Stat
	Chance        float64
	FirstSlot     bool
	LastSlot      bool
	FinalRounds   int
	MinEnergy     int
	Behind        bool
}

type Aura struct {
	Trigger     Trigger
	DodgeChance float64
	Effects     []Effect
}

type Ultimate struct {
	Cost        Cost
	Trigger     Trigger
	OncePerDuel bool
	Effects     []Effect
}

type Skill struct {
	Creature string
	Title    string
	Aura     *Aura
	Ultimate *Ultimate
}

// SkillBook is the static skill table keyed by creature name.
type SkillBook struct {
	byCreature map[string]*Skill
}

func NewSkillBook(skills []Skill) *SkillBook {
	sb := &SkillBook{byCreature: make(map[string]*Skill, len(skills))}
	for i := range skills {
		s := skills[i]
		sb.byCreature[s.Creature] = &s
	}
	return sb
}

func (sb *SkillBook) Lookup(creature string) *Skill {
	if sb == nil {
		return nil
	}
	return sb.byCreature[creature]
}

func (sb *SkillBook) Names() []string {
	if sb == nil {
		return nil
	}
	out := make([]string, 0, len(sb.byCreature))
	for name := range sb.byCreature {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (sb *SkillBook) Len() int {
	if sb == nil {
		return 0
	}
	return len(sb.byCreature)
}
