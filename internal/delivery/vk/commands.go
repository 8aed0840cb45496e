package vk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"deepsea/internal/application"
	"deepsea/internal/duel"
	"deepsea/internal/repository"

	"go.uber.org/zap"
)

const historyLimit = 5

const helpText = `Глубоководная арена — команды:
!профиль — ваш рыбак, школа и баланс
!имя <имя> — сменить имя
!школа [меч|дух|тень|тело|нет] — школа культивации
!рыбалка — закинуть удочку
!пруд — все пойманные рыбы
!отряд [id id id id id] — показать или собрать отряд из 5 рыб
!арена <id игрока | ответом на сообщение> [ставка] — дуэль
!коридор [инфо] — зеркальный коридор стражей
!история — последние дуэли`

func (h *Handler) profile(ctx context.Context, from int64) string {
	prof, err := h.players.Profile(ctx, from)
	if err != nil {
		return h.errorText(err)
	}
	return formatProfile(prof)
}

func (h *Handler) rename(ctx context.Context, from int64, name string) string {
	p, err := h.players.Rename(ctx, from, name)
	if err != nil {
		return h.errorText(err)
	}
	return fmt.Sprintf("Теперь вас зовут %s.", p.Name)
}

func (h *Handler) school(ctx context.Context, from int64, args []string) string {
	if len(args) == 0 {
		return schoolsText()
	}
	f, err := h.players.ChooseSchool(ctx, from, args[0])
	if err != nil {
		return h.errorText(err)
	}
	return fmt.Sprintf("Вы вступили в школу «%s». %s", schoolName(f), bonusText(f.Bonus()))
}

func (h *Handler) cast(ctx context.Context, from int64) string {
	f, err := h.fishing.Cast(ctx, from)
	if err != nil {
		return h.errorText(err)
	}
	return "🎣 Улов: " + formatFish(*f)
}

func (h *Handler) pond(ctx context.Context, from int64) string {
	fish, err := h.fishing.Pond(ctx, from)
	if err != nil {
		return h.errorText(err)
	}
	return formatPond(fish)
}

func (h *Handler) squad(ctx context.Context, from int64, args []string) string {
	if len(args) == 0 {
		squad, err := h.fishing.Squad(ctx, from)
		if err != nil {
			return h.errorText(err)
		}
		return formatSquad(squad)
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(a, "#"), 10, 64)
		if err != nil {
			return fmt.Sprintf("«%s» — не номер рыбы. Номера есть в !пруд.", a)
		}
		ids = append(ids, id)
	}
	squad, err := h.fishing.SetSquad(ctx, from, ids)
	if err != nil {
		return h.errorText(err)
	}
	return "Отряд собран.\n" + formatSquad(squad)
}

func (h *Handler) duel(ctx context.Context, m Message, args []string) string {
	var target int64
	if m.ReplyFromID > 0 {
		target = int64(m.ReplyFromID)
	} else {
		if len(args) == 0 {
			return "Кого вызываем? !арена <id игрока> [ставка] или ответом на сообщение соперника."
		}
		id, ok := parseTarget(args[0])
		if !ok {
			return fmt.Sprintf("Не понимаю, кто такой «%s».", args[0])
		}
		target = id
		args = args[1:]
	}

	stake := 0
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return "Ставка должна быть числом."
		}
		stake = v
	}

	out, err := h.arena.Challenge(ctx, int64(m.FromID), target, stake)
	if err != nil {
		return h.errorText(err)
	}
	return formatArena(out)
}

func (h *Handler) corridorRun(ctx context.Context, from int64, args []string) string {
	if len(args) > 0 && strings.EqualFold(args[0], "инфо") {
		st, tier, err := h.corridor.Preview(ctx, from)
		if err != nil {
			return h.errorText(err)
		}
		return formatTier(st, tier)
	}
	out, err := h.corridor.Run(ctx, from)
	if err != nil {
		return h.errorText(err)
	}
	return formatCorridor(out)
}

func (h *Handler) history(ctx context.Context, from int64) string {
	recs, err := h.players.History(ctx, from, historyLimit)
	if err != nil {
		return h.errorText(err)
	}
	p, err := h.players.GetOrCreateByVK(ctx, from)
	if err != nil {
		return h.errorText(err)
	}
	return formatHistory(p.ID, recs)
}

func (h *Handler) gm(ctx context.Context, from int64, args []string) string {
	if len(args) == 0 {
		return "Команды: !gm выдать <vk id> <камни>"
	}
	switch strings.ToLower(args[0]) {
	case "выдать":
		if len(args) < 3 {
			return "Использование: !gm выдать <vk id> <камни>"
		}
		target, ok := parseTarget(args[1])
		if !ok {
			return "Не понимаю id игрока."
		}
		amount, err := strconv.Atoi(args[2])
		if err != nil {
			return "Количество должно быть числом."
		}
		p, err := h.admin.GrantStones(ctx, from, target, amount)
		if err != nil {
			return h.errorText(err)
		}
		return fmt.Sprintf("%s: баланс %d 💎", p.Name, p.Stones)
	}
	return "Неизвестная команда ведущего."
}

// parseTarget accepts 123, id123, @id123, [id123|Имя] and vk.com/id123.
func parseTarget(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimPrefix(s, "id")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) errorText(err error) string {
	var cd *application.CooldownError
	switch {
	case errors.As(err, &cd):
		return fmt.Sprintf("Рыба ещё не вернулась к берегу. Подождите %d с.", int(cd.Left.Seconds()+0.999))
	case errors.Is(err, application.ErrNotEnoughStones):
		return "Не хватает духовных камней."
	case errors.Is(err, application.ErrOpponentNotEnoughStones):
		return "У соперника не хватает духовных камней на такую ставку."
	case errors.Is(err, application.ErrSquadIncomplete):
		return fmt.Sprintf("Нужен отряд ровно из %d разных рыб: !отряд id id id id id", duel.RosterSize)
	case errors.Is(err, application.ErrOpponentSquadIncomplete):
		return "Соперник ещё не собрал отряд."
	case errors.Is(err, application.ErrDuplicateFish):
		return "Одна рыба не может занять два места в отряде."
	case errors.Is(err, repository.ErrNotOwned):
		return "Это не ваша рыба."
	case errors.Is(err, application.ErrSelfDuel):
		return "Сразиться с собой можно только в медитации."
	case errors.Is(err, application.ErrStakeTooHigh):
		return "Ставка слишком велика для арены."
	case errors.Is(err, application.ErrBadStake):
		return "Ставка не может быть отрицательной."
	case errors.Is(err, application.ErrUnknownPlayer):
		return "Этот игрок ещё не рыбачил у нас."
	case errors.Is(err, application.ErrUnknownSchool):
		return "Такой школы нет. " + schoolsText()
	case errors.Is(err, application.ErrBadName):
		return "Имя должно быть от 2 до 32 символов."
	case errors.Is(err, application.ErrNotAdmin):
		return "Команда доступна только ведущему."
	}
	h.logger.Error("command failed", zap.Error(err))
	return "Что-то пошло не так, попробуйте позже."
}
