package duel

import (
	"fmt"

	"go.uber.org/zap"
)

// Delimiter separates round blocks in the battle log.
const Delimiter = "──────────────"

type onceKey struct {
	combatant string
	creature  string
}

// duel holds the state of one engine invocation.
type duel struct {
	a, b   *Combatant
	rng    Rand
	logger *zap.Logger

	once   map[onceKey]bool
	lines  []string
	rounds []RoundSummary
}

func (d *duel) add(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

func (d *duel) opponent(c *Combatant) *Combatant {
	if c == d.a {
		return d.b
	}
	return d.a
}

// roundContext carries the control flags effects write during one pass of a round.
type roundContext struct {
	d     *duel
	index int

	rolled    Stat
	forced    Stat
	forceDraw bool
	wins      map[*Combatant]bool
	special   *Combatant
	reroll    *Combatant
}

func newRoundContext(d *duel, index int) *roundContext {
	return &roundContext{d: d, index: index, wins: map[*Combatant]bool{}}
}

func (rc *roundContext) add(format string, args ...any) { rc.d.add(format, args...) }

// rule is the rule the round will be decided by as of now: the forced one if any,
// otherwise the rule rolled at the start of the round.
func (rc *roundContext) rule() Stat {
	if rc.forced.Valid() {
		return rc.forced
	}
	return rc.rolled
}

type combatantState struct {
	energy     int
	auraChance float64
	lastSpent  int
}

// snapshot is the duel state at the start of a round pass. A rerolled pass is
// rolled back to it; reroll allowances and once-per-duel flags stay spent.
type snapshot struct {
	creatures  []Creature
	combatants [2]combatantState
}

func (d *duel) snapshot() snapshot {
	var s snapshot
	for i, c := range []*Combatant{d.a, d.b} {
		s.combatants[i] = combatantState{energy: c.Energy, auraChance: c.AuraChance, lastSpent: c.LastSpent}
		for _, cr := range c.Roster {
			s.creatures = append(s.creatures, cr.clone())
		}
	}
	return s
}

func (d *duel) restore(s snapshot) {
	n := 0
	for i, c := range []*Combatant{d.a, d.b} {
		st := s.combatants[i]
		c.Energy, c.AuraChance, c.LastSpent = st.energy, st.auraChance, st.lastSpent
		for _, cr := range c.Roster {
			*cr = s.creatures[n]
			n++
		}
	}
}
