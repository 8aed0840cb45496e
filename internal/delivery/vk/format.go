package vk

import (
	"fmt"
	"strings"

	"deepsea/internal/application"
	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
	"deepsea/internal/models"
)

const pondListLimit = 40

var schoolNames = map[duel.Faction]string{
	duel.FactionNone:   "без школы",
	duel.FactionSword:  "Меч",
	duel.FactionSpirit: "Дух",
	duel.FactionShadow: "Тень",
	duel.FactionBody:   "Тело",
}

var schoolOrder = []duel.Faction{
	duel.FactionSword, duel.FactionSpirit, duel.FactionShadow, duel.FactionBody, duel.FactionNone,
}

func schoolName(f duel.Faction) string {
	return schoolNames[f]
}

func bonusText(b duel.FactionBonus) string {
	var parts []string
	if b.StartEnergy != 0 {
		parts = append(parts, fmt.Sprintf("%+d стартовой энергии", b.StartEnergy))
	}
	if b.AuraChance != 0 {
		parts = append(parts, fmt.Sprintf("%+.0f%% к шансу аур", b.AuraChance*100))
	}
	if b.StealChance != 0 {
		parts = append(parts, fmt.Sprintf("%+.0f%% к краже энергии", b.StealChance*100))
	}
	if len(parts) == 0 {
		return "Без бонусов."
	}
	return "Бонус: " + strings.Join(parts, ", ") + "."
}

func schoolsText() string {
	var b strings.Builder
	b.WriteString("Школы культивации:")
	for _, f := range schoolOrder {
		fmt.Fprintf(&b, "\n• %s — %s", schoolName(f), bonusText(f.Bonus()))
	}
	return b.String()
}

func stars(r int) string {
	return strings.Repeat("★", r)
}

func formatFish(f models.Fish) string {
	return fmt.Sprintf("#%d %s %s, %d г, ценность %d", f.ID, f.Species, stars(f.Rarity), f.Weight, f.Value)
}

func formatProfile(p *application.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🐟 %s\n", p.Player.Name)
	fmt.Fprintf(&b, "Школа: %s\n", schoolName(p.Faction))
	fmt.Fprintf(&b, "Духовные камни: %d 💎 | осколки: %d | сундуки: %d\n", p.Player.Stones, p.Player.Craft, p.Player.Containers)
	fmt.Fprintf(&b, "Рыб в пруду: %d, в отряде: %d/%d", p.PondSize, len(p.Squad), duel.RosterSize)
	for _, it := range p.Items {
		fmt.Fprintf(&b, "\n🎁 %s ×%d", it.Name, it.Qty)
	}
	return b.String()
}

func formatPond(fish []models.Fish) string {
	if len(fish) == 0 {
		return "Пруд пуст. Попробуйте !рыбалка"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Ваш пруд (%d):", len(fish))
	for i, f := range fish {
		if i == pondListLimit {
			fmt.Fprintf(&b, "\n…и ещё %d", len(fish)-pondListLimit)
			break
		}
		b.WriteString("\n")
		if f.InSquad() {
			b.WriteString("⚔ ")
		}
		b.WriteString(formatFish(f))
	}
	return b.String()
}

func formatSquad(squad []models.Fish) string {
	if len(squad) == 0 {
		return "Отряд не собран. !отряд id id id id id"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Отряд (%d/%d):", len(squad), duel.RosterSize)
	for i, f := range squad {
		fmt.Fprintf(&b, "\n%d. %s", i+1, formatFish(f))
	}
	return b.String()
}

func formatArena(out *application.ArenaOutcome) string {
	var b strings.Builder
	b.WriteString(out.Result.Text())
	switch {
	case out.Winner == nil:
		if out.Stake > 0 {
			fmt.Fprintf(&b, "\nСтавки возвращены (%d 💎).", out.Stake)
		}
	default:
		if out.Stake > 0 {
			fmt.Fprintf(&b, "\n%s забирает %d 💎.", out.Winner.Name, 2*out.Stake)
		}
		for _, f := range out.Taken {
			fmt.Fprintf(&b, "\n%s уводит к себе %s %s.", out.Winner.Name, f.Species, stars(f.Rarity))
		}
	}
	return b.String()
}

func formatTier(strength int, t gamedata.Tier) string {
	return fmt.Sprintf("Сила отряда %d → уровень коридора %d: стражи %d×★4 и %d×★5.\nНаграда: %d 💎, %d осколков, ~%.1f сундуков, шанс редкой находки %.0f%%.",
		strength, t.Tier, t.GuardsR4, t.GuardsR5, t.Currency, t.Craft, t.Containers, t.RareChance*100)
}

func formatCorridor(out *application.CorridorOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Зеркальный коридор, уровень %d (сила %d)\n", out.Tier.Tier, out.Strength)
	b.WriteString(out.Result.Text())
	if rw := out.Reward; rw != nil {
		fmt.Fprintf(&b, "\nНаграда: %d 💎, %d осколков, %d сундуков.", rw.Currency, rw.Craft, rw.Containers)
		if rw.RareItem != "" {
			fmt.Fprintf(&b, "\n✨ Редкая находка: %s!", rw.RareItem)
		}
	}
	return b.String()
}

var outcomeNames = map[string]string{
	models.OutcomeWin:  "победа",
	models.OutcomeLoss: "поражение",
	models.OutcomeDraw: "ничья",
}

// formatHistory renders outcomes from the viewer's side; stored outcomes are the attacker's.
func formatHistory(viewerID int64, recs []models.DuelRecord) string {
	if len(recs) == 0 {
		return "Дуэлей ещё не было."
	}
	var b strings.Builder
	b.WriteString("Последние дуэли:")
	for _, r := range recs {
		outcome, scoreMe, scoreThem := r.Outcome, r.ScoreA, r.ScoreB
		opponent := r.DefenderName
		if r.AttackerID != viewerID {
			scoreMe, scoreThem = r.ScoreB, r.ScoreA
			opponent = "защита"
			switch outcome {
			case models.OutcomeWin:
				outcome = models.OutcomeLoss
			case models.OutcomeLoss:
				outcome = models.OutcomeWin
			}
		}
		kind := "арена"
		if r.Kind == models.DuelKindCorridor {
			kind = "коридор"
		}
		fmt.Fprintf(&b, "\n%s · %s · %s %d:%d · %s", r.CreatedAt.Format("02.01 15:04"), kind, outcomeNames[outcome], scoreMe, scoreThem, opponent)
		if r.Stake > 0 {
			fmt.Fprintf(&b, " · ставка %d", r.Stake)
		}
		if r.Special {
			b.WriteString(" · досрочно")
		}
	}
	return b.String()
}
