package application

import (
	"fmt"

	"deepsea/internal/duel"
	"deepsea/internal/models"
)

// RandFactory yields a fresh random source per operation.
type RandFactory func() duel.Rand

func defaultRand() duel.Rand { return duel.NewRand(0) }

func combatantID(p *models.Player) string {
	return fmt.Sprintf("vk:%d", p.VKID)
}

// rosterFor turns a stored squad into an engine roster. Caught fish keep their weight.
func rosterFor(p *models.Player, squad []models.Fish) duel.RosterSpec {
	spec := duel.RosterSpec{
		ID:      combatantID(p),
		Name:    p.Name,
		Faction: duel.ParseFaction(p.Faction),
	}
	for _, f := range squad {
		spec.Creatures = append(spec.Creatures, duel.CreatureSpec{
			Name:      f.Species,
			Rarity:    f.Rarity,
			MinWeight: f.Weight,
			MaxWeight: f.Weight,
			Value:     f.Value,
		})
	}
	return spec
}

func rarities(squad []models.Fish) []int {
	out := make([]int, len(squad))
	for i, f := range squad {
		out[i] = f.Rarity
	}
	return out
}
