package duel

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Rounds is the fixed length of a duel.
const Rounds = 5

var (
	ErrRosterSize  = errors.New("roster must have exactly 5 creatures")
	ErrNoRand      = errors.New("duel needs a random source")
	ErrSameID      = errors.New("both sides share one combatant id")
	ErrBadCreature = errors.New("creature stats out of range")
)

type Engine struct {
	book   *SkillBook
	logger *zap.Logger
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine builds an engine over a static skill table. The engine keeps no
// per-duel state, so one instance can serve concurrent duels.
func NewEngine(book *SkillBook, opts ...Option) *Engine {
	e := &Engine{book: book, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Skills() *SkillBook { return e.book }

type roundOutcome int

const (
	roundDone roundOutcome = iota
	roundReroll
	roundSpecial
)

// Run plays a full duel between a (acts first every phase) and b.
func (e *Engine) Run(rng Rand, a, b RosterSpec) (*Result, error) {
	if rng == nil {
		return nil, ErrNoRand
	}
	for _, r := range []RosterSpec{a, b} {
		if len(r.Creatures) != RosterSize {
			return nil, fmt.Errorf("%w: %q has %d", ErrRosterSize, r.Name, len(r.Creatures))
		}
		for i, c := range r.Creatures {
			if err := c.validate(); err != nil {
				return nil, fmt.Errorf("%q slot %d: %w", r.Name, i+1, err)
			}
		}
	}
	if a.ID == b.ID {
		return nil, fmt.Errorf("%w: %q", ErrSameID, a.ID)
	}

	d := &duel{
		rng:    rng,
		logger: e.logger.With(zap.String("side_a", a.ID), zap.String("side_b", b.ID)),
		once:   map[onceKey]bool{},
	}
	d.a = newCombatant(a, rng, e.book)
	d.b = newCombatant(b, rng, e.book)
	d.add("⚔ %s [%s] против %s [%s]", d.a.Name, d.a.Faction, d.b.Name, d.b.Faction)

	var special *Combatant
	replay := false
loop:
	for i := 0; i < Rounds; {
		out, rc := d.playRound(i, replay)
		switch out {
		case roundSpecial:
			special = rc.special
			break loop
		case roundReroll:
			replay = true
			continue
		}
		replay = false
		i++
	}
	return d.finish(special), nil
}

func (d *duel) playRound(i int, replay bool) (roundOutcome, *roundContext) {
	rc := newRoundContext(d, i)
	ca, cb := d.a.Roster[i], d.b.Roster[i]
	snap := d.snapshot()

	d.add(Delimiter)
	if replay {
		d.add("Раунд %d (переигровка)", i+1)
	} else {
		d.add("Раунд %d", i+1)
	}

	ga, gb := energyGain(ca.BaseRarity), energyGain(cb.BaseRarity)
	d.a.addEnergy(ga)
	d.b.addEnergy(gb)

	ca.reset()
	cb.reset()
	rc.rolled = allStats[d.rng.Intn(len(allStats))]

	d.add("%s: %s | энергия %d (+%d)", d.a.Name, ca.label(), d.a.Energy, ga)
	d.add("%s: %s | энергия %d (+%d)", d.b.Name, cb.label(), d.b.Energy, gb)

	rc.aura(d.a, d.b, ca, cb)
	rc.aura(d.b, d.a, cb, ca)

	rc.ultimate(d.a, d.b, ca, cb)
	rc.ultimate(d.b, d.a, cb, ca)

	if rc.special != nil {
		d.summarize(rc, ca, cb, nil)
		return roundSpecial, rc
	}
	if rc.reroll != nil {
		d.add("Раунд %d будет переигран по требованию %s", i+1, rc.reroll.Name)
		d.summarize(rc, ca, cb, nil)
		d.restore(snap)
		return roundReroll, rc
	}

	rule := rc.rule()
	if rc.forced.Valid() {
		d.add("Правило раунда: %s (навязано)", rule)
	} else {
		d.add("Правило раунда: %s", rule)
	}

	winner := rc.decide(rule, ca, cb)

	rc.endOfRound(d.a, d.b, ca)
	rc.endOfRound(d.b, d.a, cb)

	d.add("Счёт %d:%d", d.a.Score, d.b.Score)
	d.summarize(rc, ca, cb, winner)
	return roundDone, rc
}

func (rc *roundContext) aura(me, them *Combatant, mine, theirs *Creature) {
	sk := mine.Skill
	if sk == nil || sk.Aura == nil {
		return
	}
	if mine.AuraDisabled {
		rc.add("Аура %s запечатана", mine.Name)
		return
	}
	if !rc.check(sk.Aura.Trigger, me, them, mine, theirs) {
		return
	}
	if rc.dodged(theirs) {
		rc.add("%s уклоняется от ауры %s", theirs.Name, mine.Name)
		return
	}
	rc.add("Аура %s «%s»", mine.Name, sk.Title)
	rc.dispatch(auraHandlers, "aura", sk.Aura.Effects, me, them, mine, theirs)
}

func (rc *roundContext) dodged(theirs *Creature) bool {
	if theirs.AuraDodge {
		return true
	}
	ts := theirs.Skill
	if ts == nil || ts.Aura == nil || ts.Aura.DodgeChance <= 0 || theirs.AuraDisabled {
		return false
	}
	return rc.d.rng.Float64() < ts.Aura.DodgeChance
}

func (rc *roundContext) ultimate(me, them *Combatant, mine, theirs *Creature) {
	sk := mine.Skill
	if sk == nil || sk.Ultimate == nil {
		return
	}
	ult := sk.Ultimate
	if mine.UltimateDisabled {
		rc.add("Ульта %s запечатана", mine.Name)
		return
	}
	key := onceKey{combatant: me.ID, creature: mine.Name}
	if ult.OncePerDuel && rc.d.once[key] {
		rc.add("%s: ульта уже сработала в этой дуэли", mine.Name)
		return
	}
	cost, ok := ult.Cost.resolve(me.Energy)
	if !ok {
		rc.add("%s: не хватает энергии на ульту (%d)", mine.Name, me.Energy)
		return
	}
	if !rc.check(ult.Trigger, me, them, mine, theirs) {
		return
	}
	me.Energy -= cost
	me.LastSpent = cost
	if ult.OncePerDuel {
		rc.d.once[key] = true
	}
	rc.add("Ульта %s «%s»: −%d энергии (осталось %d)", mine.Name, sk.Title, cost, me.Energy)
	rc.dispatch(ultimateHandlers, "ultimate", ult.Effects, me, them, mine, theirs)
}

// decide scores the round and returns the side that scored, or nil.
func (rc *roundContext) decide(rule Stat, ca, cb *Creature) *Combatant {
	a, b := rc.d.a, rc.d.b
	var winner *Combatant
	switch {
	case rc.forceDraw:
		rc.add("Ничья: течение остановлено")
		return nil
	case rc.wins[a] && rc.wins[b]:
		rc.add("Обе стороны заявили раунд: очко не присуждается")
		return nil
	case rc.wins[a]:
		winner = a
	case rc.wins[b]:
		winner = b
	default:
		va, vb := ca.Get(rule), cb.Get(rule)
		rc.add("%s: %d против %d", rule, va, vb)
		switch {
		case va > vb:
			winner = a
		case vb > va:
			winner = b
		default:
			rc.add("Равенство: очко не присуждается")
			return nil
		}
	}
	winner.Score++
	rc.add("Раунд за %s", winner.Name)
	return winner
}

func (rc *roundContext) endOfRound(me, them *Combatant, mine *Creature) {
	for _, ef := range mine.EndOfRound {
		switch ef.Kind {
		case EndGrantEnergy:
			me.addEnergy(ef.Amount)
			rc.add("%s: %+d энергии в конце раунда (%d)", me.Name, ef.Amount, me.Energy)
		case EndDrainOpponent:
			got := them.takeEnergy(ef.Amount)
			rc.add("%s теряет %d энергии в конце раунда", them.Name, got)
		}
	}
	mine.EndOfRound = nil
}

func (d *duel) summarize(rc *roundContext, ca, cb *Creature, winner *Combatant) {
	s := RoundSummary{
		Number:    rc.index + 1,
		CreatureA: ca.Name,
		CreatureB: cb.Name,
		Rule:      rc.rule(),
		Forced:    rc.forced.Valid(),
		Rerolled:  rc.reroll != nil,
		Special:   rc.special != nil,
		EnergyA:   d.a.Energy,
		EnergyB:   d.b.Energy,
		ScoreA:    d.a.Score,
		ScoreB:    d.b.Score,
	}
	if winner != nil {
		s.WinnerID = winner.ID
	}
	d.rounds = append(d.rounds, s)
}

func (d *duel) finish(special *Combatant) *Result {
	res := &Result{
		AID:        d.a.ID,
		BID:        d.b.ID,
		ScoreA:     d.a.Score,
		ScoreB:     d.b.Score,
		SpecialWin: special != nil,
		Rounds:     d.rounds,
	}

	var winner *Combatant
	switch {
	case special != nil:
		winner = special
	case d.a.Score > d.b.Score:
		winner = d.a
	case d.b.Score > d.a.Score:
		winner = d.b
	}

	d.add(Delimiter)
	d.add("Итог: %s %d : %d %s", d.a.Name, d.a.Score, d.b.Score, d.b.Name)
	if winner == nil {
		res.Draw = true
		d.add("Ничья")
	} else {
		res.WinnerID = winner.ID
		res.LoserID = d.opponent(winner).ID
		d.add("Победитель: %s", winner.Name)
	}
	res.Log = d.lines
	return res
}
