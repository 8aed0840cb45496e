package duel

func (t Trigger) Empty() bool {
	return t == Trigger{}
}

// check evaluates every condition of t; any out-of-range parameter fails the trigger.
// The chance roll happens last so a trigger that fails on state does not consume randomness.
func (rc *roundContext) check(t Trigger, me, them *Combatant, mine, theirs *Creature) bool {
	if t.Empty() {
		return true
	}
	if t.OppRarityLTE != 0 {
		if !rarityInRange(t.OppRarityLTE) || theirs.Rarity > t.OppRarityLTE {
			return false
		}
	}
	if t.OppRarityGTE != 0 {
		if !rarityInRange(t.OppRarityGTE) || theirs.Rarity < t.OppRarityGTE {
			return false
		}
	}
	if t.SelfRarityGTE != 0 {
		if !rarityInRange(t.SelfRarityGTE) || mine.Rarity < t.SelfRarityGTE {
			return false
		}
	}
	if t.RuleIs != StatNone {
		if !t.RuleIs.Valid() || rc.rule() != t.RuleIs {
			return false
		}
	}
	if t.FirstSlot && mine.Slot != 0 {
		return false
	}
	if t.LastSlot && mine.Slot != len(me.Roster)-1 {
		return false
	}
	if t.FinalRounds != 0 {
		if t.FinalRounds < 0 || t.FinalRounds > Rounds || rc.index < Rounds-t.FinalRounds {
			return false
		}
	}
	if t.MinEnergy != 0 {
		if t.MinEnergy < 0 || me.Energy < t.MinEnergy {
			return false
		}
	}
	if t.Behind && me.Score >= them.Score {
		return false
	}
	if t.Chance != 0 {
		if t.Chance < 0 || t.Chance > 1 {
			return false
		}
		if rc.d.rng.Float64() >= t.Chance+me.AuraChance {
			return false
		}
	}
	return true
}

func rarityInRange(r int) bool {
	return r >= 1 && r <= 5
}
