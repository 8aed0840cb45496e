package duel

import (
	"math"

	"go.uber.org/zap"
)

// Handler applies one effect. me/mine are the acting side, them/theirs the opponent.
type Handler interface {
	Apply(rc *roundContext, me, them *Combatant, mine, theirs *Creature, p Params)
}

type HandlerFunc func(rc *roundContext, me, them *Combatant, mine, theirs *Creature, p Params)

func (f HandlerFunc) Apply(rc *roundContext, me, them *Combatant, mine, theirs *Creature, p Params) {
	f(rc, me, them, mine, theirs, p)
}

var auraHandlers = map[EffectKind]Handler{
	EffectForceRule:      HandlerFunc(forceRule),
	EffectForceDraw:      HandlerFunc(forceDraw),
	EffectWinRound:       HandlerFunc(winRound),
	EffectBuffSelf:       HandlerFunc(buffSelf),
	EffectDebuffOpponent: HandlerFunc(debuffOpponent),
	EffectTeamBuff:       HandlerFunc(teamBuff),
	EffectGrantEnergy:    HandlerFunc(grantEnergy),
	EffectStealEnergy:    HandlerFunc(stealEnergy),
	EffectDrainEnergy:    HandlerFunc(drainEnergy),
	EffectDelayedEnergy:  HandlerFunc(delayedEnergy),
	EffectSealAura:       HandlerFunc(sealAura),
	EffectSealUltimate:   HandlerFunc(sealUltimate),
	EffectAuraChance:     HandlerFunc(auraChance),
	EffectCopyStat:       HandlerFunc(copyStat),
	EffectSwapStat:       HandlerFunc(swapStat),
}

var ultimateHandlers = map[EffectKind]Handler{
	EffectForceRule:      HandlerFunc(forceRule),
	EffectForceDraw:      HandlerFunc(forceDraw),
	EffectWinRound:       HandlerFunc(winRound),
	EffectBuffSelf:       HandlerFunc(buffSelf),
	EffectDebuffOpponent: HandlerFunc(debuffOpponent),
	EffectTeamBuff:       HandlerFunc(teamBuff),
	EffectGrantEnergy:    HandlerFunc(grantEnergy),
	EffectStealEnergy:    HandlerFunc(stealEnergy),
	EffectDrainEnergy:    HandlerFunc(drainEnergy),
	EffectDelayedEnergy:  HandlerFunc(delayedEnergy),
	EffectDelayedDrain:   HandlerFunc(delayedDrain),
	EffectSealAura:       HandlerFunc(sealAura),
	EffectSealUltimate:   HandlerFunc(sealUltimate),
	EffectSwapStat:       HandlerFunc(swapStat),
	EffectRerollRound:    HandlerFunc(rerollRound),
	EffectInstantWin:     HandlerFunc(instantWin),
	EffectScaleByEnergy:  HandlerFunc(scaleByEnergy),
	EffectGuardNext:      HandlerFunc(guardNext),
	EffectCleanse:        HandlerFunc(cleanse),
}

// KnownAuraEffect reports whether kind has an aura handler.
func KnownAuraEffect(kind EffectKind) bool {
	_, ok := auraHandlers[kind]
	return ok
}

func KnownUltimateEffect(kind EffectKind) bool {
	_, ok := ultimateHandlers[kind]
	return ok
}

// dispatch runs effects through table; unknown kinds are logged and skipped.
func (rc *roundContext) dispatch(table map[EffectKind]Handler, phase string, effects []Effect, me, them *Combatant, mine, theirs *Creature) {
	for _, ef := range effects {
		h, ok := table[ef.Kind]
		if !ok {
			rc.d.logger.Warn("unknown effect skipped",
				zap.String("phase", phase),
				zap.String("effect", string(ef.Kind)),
				zap.String("creature", mine.Name),
				zap.String("combatant", me.ID),
			)
			continue
		}
		h.Apply(rc, me, them, mine, theirs, ef.Params)
	}
}

func forceRule(rc *roundContext, me, _ *Combatant, mine, _ *Creature, p Params) {
	if !p.Stat.Valid() {
		rc.d.logger.Warn("force_rule without stat", zap.String("creature", mine.Name))
		return
	}
	rc.forced = p.Stat
	rc.add("  %s навязывает правило %s", mine.Name, p.Stat)
}

func forceDraw(rc *roundContext, _, _ *Combatant, mine, _ *Creature, _ Params) {
	rc.forceDraw = true
	rc.add("  %s сковывает течение: раунд закончится ничьей", mine.Name)
}

func winRound(rc *roundContext, me, _ *Combatant, mine, _ *Creature, _ Params) {
	rc.wins[me] = true
	rc.add("  %s забирает раунд для %s", mine.Name, me.Name)
}

func modifier(p Params, debuff bool) Modifier {
	m := Modifier{Stat: p.Stat, Percent: math.Abs(p.Percent), Flat: absInt(p.Flat)}
	if debuff {
		m.Percent, m.Flat = -m.Percent, -m.Flat
	}
	return m
}

// modify applies m to target according to scope. owner is the combatant target belongs to.
func (rc *roundContext) modify(owner *Combatant, target *Creature, m Modifier, scope Scope, debuff bool) {
	if !m.Stat.Valid() {
		return
	}
	switch scope {
	case ScopePermanent:
		if debuff {
			target.PermanentDebuffs = append(target.PermanentDebuffs, m)
		} else {
			target.PermanentBuffs = append(target.PermanentBuffs, m)
		}
		target.apply(m)
		rc.add("  %s: %s до конца дуэли", target.Name, m)
	case ScopeNext:
		next := owner.next(target.Slot)
		if next == nil {
			rc.add("  %s: некому передать %s", target.Name, m)
			return
		}
		if debuff {
			next.TurnDebuffs = append(next.TurnDebuffs, m)
		} else {
			next.TurnBuffs = append(next.TurnBuffs, m)
		}
		rc.add("  %s получит %s в следующем раунде", next.Name, m)
	default:
		target.apply(m)
		rc.add("  %s: %s", target.Name, m)
	}
}

func buffSelf(rc *roundContext, me, _ *Combatant, mine, _ *Creature, p Params) {
	rc.modify(me, mine, modifier(p, false), p.Scope, false)
}

func debuffOpponent(rc *roundContext, _, them *Combatant, _, theirs *Creature, p Params) {
	rc.modify(them, theirs, modifier(p, true), p.Scope, true)
}

func teamBuff(rc *roundContext, me, _ *Combatant, mine, _ *Creature, p Params) {
	m := modifier(p, false)
	if !m.Stat.Valid() {
		return
	}
	for _, c := range me.Roster[mine.Slot:] {
		c.PermanentBuffs = append(c.PermanentBuffs, m)
	}
	mine.apply(m)
	rc.add("  %s: стая %s получает %s до конца дуэли", mine.Name, me.Name, m)
}

func grantEnergy(rc *roundContext, me, _ *Combatant, mine, _ *Creature, p Params) {
	me.addEnergy(p.Amount)
	rc.add("  %s даёт %s %+d энергии (%d)", mine.Name, me.Name, p.Amount, me.Energy)
}

func stealEnergy(rc *roundContext, me, them *Combatant, mine, _ *Creature, p Params) {
	chance := p.Chance
	if chance == 0 {
		chance = 1
	}
	if rc.d.rng.Float64() >= chance+me.StealChance {
		rc.add("  %s не смог украсть энергию", mine.Name)
		return
	}
	got := them.takeEnergy(p.Amount)
	me.addEnergy(got)
	rc.add("  %s крадёт %d энергии у %s", mine.Name, got, them.Name)
}

func drainEnergy(rc *roundContext, _, them *Combatant, mine, _ *Creature, p Params) {
	got := them.takeEnergy(p.Amount)
	rc.add("  %s рассеивает %d энергии %s", mine.Name, got, them.Name)
}

func delayedEnergy(rc *roundContext, _, _ *Combatant, mine, _ *Creature, p Params) {
	mine.EndOfRound = append(mine.EndOfRound, EndOfRoundEffect{Kind: EndGrantEnergy, Amount: p.Amount})
	rc.add("  %s накопит %d энергии к концу раунда", mine.Name, p.Amount)
}

func delayedDrain(rc *roundContext, _, _ *Combatant, mine, _ *Creature, p Params) {
	mine.EndOfRound = append(mine.EndOfRound, EndOfRoundEffect{Kind: EndDrainOpponent, Amount: p.Amount})
	rc.add("  %s рассеет %d энергии противника в конце раунда", mine.Name, p.Amount)
}

func sealTarget(them *Combatant, theirs *Creature, scope Scope) *Creature {
	if scope == ScopeNext {
		return them.next(theirs.Slot)
	}
	return theirs
}

func sealAura(rc *roundContext, _, them *Combatant, mine, theirs *Creature, p Params) {
	t := sealTarget(them, theirs, p.Scope)
	if t == nil {
		return
	}
	t.AuraDisabled = true
	rc.add("  %s запечатывает ауру %s", mine.Name, t.Name)
}

func sealUltimate(rc *roundContext, _, them *Combatant, mine, theirs *Creature, p Params) {
	t := sealTarget(them, theirs, p.Scope)
	if t == nil {
		return
	}
	t.UltimateDisabled = true
	rc.add("  %s запечатывает ульту %s", mine.Name, t.Name)
}

func auraChance(rc *roundContext, me, _ *Combatant, mine, _ *Creature, p Params) {
	me.AuraChance += p.Chance
	rc.add("  %s: шанс аур %s %+.0f%%", mine.Name, me.Name, p.Chance*100)
}

func copyStat(rc *roundContext, _, _ *Combatant, mine, theirs *Creature, p Params) {
	if !p.Stat.Valid() {
		return
	}
	if v := theirs.Get(p.Stat); v > mine.Get(p.Stat) {
		mine.Set(p.Stat, v)
		rc.add("  %s перенимает %s = %d у %s", mine.Name, p.Stat, v, theirs.Name)
	}
}

func swapStat(rc *roundContext, _, _ *Combatant, mine, theirs *Creature, p Params) {
	if !p.Stat.Valid() {
		return
	}
	mv, tv := mine.Get(p.Stat), theirs.Get(p.Stat)
	mine.Set(p.Stat, tv)
	theirs.Set(p.Stat, mv)
	rc.add("  %s меняется %s с %s (%d ↔ %d)", mine.Name, p.Stat, theirs.Name, mv, tv)
}

func rerollRound(rc *roundContext, me, _ *Combatant, mine, _ *Creature, _ Params) {
	if me.RerollUsed {
		rc.add("  %s: переигровка уже использована", mine.Name)
		return
	}
	me.RerollUsed = true
	rc.reroll = me
	rc.add("  %s требует переиграть раунд", mine.Name)
}

func instantWin(rc *roundContext, me, _ *Combatant, mine, _ *Creature, _ Params) {
	if rc.special != nil {
		return
	}
	rc.special = me
	rc.add("  %s обрывает дуэль: победа %s", mine.Name, me.Name)
}

func scaleByEnergy(rc *roundContext, me, _ *Combatant, mine, _ *Creature, p Params) {
	if !p.Stat.Valid() || me.LastSpent <= 0 {
		return
	}
	m := Modifier{Stat: p.Stat, Percent: p.Percent * float64(me.LastSpent)}
	mine.apply(m)
	rc.add("  %s вкладывает %d энергии: %s", mine.Name, me.LastSpent, m)
}

func guardNext(rc *roundContext, me, _ *Combatant, mine, _ *Creature, _ Params) {
	next := me.next(mine.Slot)
	if next == nil {
		return
	}
	next.AuraDodge = true
	rc.add("  %s прикрывает %s от чужих аур", mine.Name, next.Name)
}

func cleanse(rc *roundContext, _, _ *Combatant, mine, _ *Creature, _ Params) {
	mine.cleanse()
	rc.add("  %s очищается от ослаблений", mine.Name)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
