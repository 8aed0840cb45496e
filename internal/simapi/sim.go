package simapi

import (
	"fmt"

	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
)

// Fill completes creatures given only by species name from the catalogue.
// Creatures that already carry a rarity are left untouched.
func Fill(cat *gamedata.Catalogue, r duel.RosterSpec) (duel.RosterSpec, error) {
	out := r
	out.Creatures = make([]duel.CreatureSpec, len(r.Creatures))
	for i, c := range r.Creatures {
		if c.Rarity != 0 {
			out.Creatures[i] = c
			continue
		}
		sp, ok := cat.Lookup(c.Name)
		if !ok {
			return duel.RosterSpec{}, fmt.Errorf("unknown species %q", c.Name)
		}
		out.Creatures[i] = sp.CreatureSpec()
	}
	return out, nil
}

// RandomRoster draws a roster the way casts would fill a pond.
func RandomRoster(cat *gamedata.Catalogue, id string, rng duel.Rand) duel.RosterSpec {
	r := duel.RosterSpec{ID: id, Name: id}
	for i := 0; i < duel.RosterSize; i++ {
		r.Creatures = append(r.Creatures, cat.Pick(rng).CreatureSpec())
	}
	return r
}

type BatchStats struct {
	Duels       int     `json:"duels"`
	WinsA       int     `json:"wins_a"`
	WinsB       int     `json:"wins_b"`
	Draws       int     `json:"draws"`
	SpecialWins int     `json:"special_wins"`
	AvgMargin   float64 `json:"avg_margin"`
}

func (s BatchStats) String() string {
	if s.Duels == 0 {
		return "no duels"
	}
	pct := func(n int) float64 { return 100 * float64(n) / float64(s.Duels) }
	return fmt.Sprintf("duels %d: A %.1f%%, B %.1f%%, draws %.1f%%, early wins %d, avg margin %.2f",
		s.Duels, pct(s.WinsA), pct(s.WinsB), pct(s.Draws), s.SpecialWins, s.AvgMargin)
}

// Batch plays n duels seeded seed, seed+1, ... and aggregates outcomes.
func Batch(e *duel.Engine, seed int64, n int, a, b duel.RosterSpec) (BatchStats, error) {
	var st BatchStats
	margins := 0
	for i := 0; i < n; i++ {
		res, err := e.Run(duel.NewRand(seed+int64(i)), a, b)
		if err != nil {
			return st, err
		}
		st.Duels++
		switch {
		case res.Draw:
			st.Draws++
		case res.WinnerID == a.ID:
			st.WinsA++
		default:
			st.WinsB++
		}
		if res.SpecialWin {
			st.SpecialWins++
		}
		margins += res.Margin()
	}
	if st.Duels > 0 {
		st.AvgMargin = float64(margins) / float64(st.Duels)
	}
	return st, nil
}
