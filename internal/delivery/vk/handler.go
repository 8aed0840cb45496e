package vk

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"deepsea/internal/application"

	"github.com/SevereCloud/vksdk/v2/api"
	"github.com/SevereCloud/vksdk/v2/events"
	longpoll "github.com/SevereCloud/vksdk/v2/longpoll-bot"
	"go.uber.org/zap"
)

// maxMessageLen keeps replies under the VK message size limit.
const maxMessageLen = 4000

// Sender is the part of the VK API the handler needs. *api.VK satisfies it.
type Sender interface {
	MessagesSend(params api.Params) (int, error)
}

// Message is an incoming chat message reduced to what commands use.
type Message struct {
	FromID      int
	PeerID      int
	Text        string
	ReplyFromID int // author of the replied-to message, 0 if none
}

type Handler struct {
	vk       Sender
	logger   *zap.Logger
	players  *application.PlayerService
	fishing  *application.FishingService
	arena    *application.ArenaService
	corridor *application.CorridorService
	admin    *application.AdminService
}

func NewHandler(
	vk Sender,
	logger *zap.Logger,
	players *application.PlayerService,
	fishing *application.FishingService,
	arena *application.ArenaService,
	corridor *application.CorridorService,
	admin *application.AdminService,
) *Handler {
	return &Handler{
		vk:       vk,
		logger:   logger,
		players:  players,
		fishing:  fishing,
		arena:    arena,
		corridor: corridor,
		admin:    admin,
	}
}

func (h *Handler) send(peerID int, msg string) {
	for _, part := range chunks(msg, maxMessageLen) {
		_, err := h.vk.MessagesSend(api.Params{
			"peer_id":   peerID,
			"random_id": time.Now().UnixNano(),
			"message":   part,
		})
		if err != nil {
			h.logger.Warn("send failed", zap.Int("peer_id", peerID), zap.Error(err))
			return
		}
	}
}

func (h *Handler) Start(lp *longpoll.LongPoll) {
	lp.MessageNew(func(ctx context.Context, obj events.MessageNewObject) {
		m := obj.Message
		msg := Message{FromID: m.FromID, PeerID: m.PeerID, Text: m.Text}
		if m.ReplyMessage != nil {
			msg.ReplyFromID = m.ReplyMessage.FromID
		}
		if reply := h.Handle(ctx, msg); reply != "" {
			h.send(msg.PeerID, reply)
		}
	})
}

// Handle runs one chat command and returns the reply, or "" when the message is not for the bot.
func (h *Handler) Handle(ctx context.Context, m Message) string {
	text := strings.TrimSpace(m.Text)
	if m.FromID <= 0 || !strings.HasPrefix(text, "!") {
		return ""
	}
	h.logger.Debug("command", zap.Int("peer_id", m.PeerID), zap.Int("from_id", m.FromID), zap.String("text", text))

	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	from := int64(m.FromID)

	switch cmd {
	case "!ping":
		return "pong"
	case "!помощь":
		return helpText
	case "!профиль":
		return h.profile(ctx, from)
	case "!имя":
		return h.rename(ctx, from, strings.Join(args, " "))
	case "!школа":
		return h.school(ctx, from, args)
	case "!рыбалка":
		return h.cast(ctx, from)
	case "!пруд":
		return h.pond(ctx, from)
	case "!отряд":
		return h.squad(ctx, from, args)
	case "!арена":
		return h.duel(ctx, m, args)
	case "!коридор":
		return h.corridorRun(ctx, from, args)
	case "!история":
		return h.history(ctx, from)
	case "!gm":
		if !h.admin.IsAdmin(from) {
			return ""
		}
		return h.gm(ctx, from, args)
	}
	return "Неизвестная команда. Список команд: !помощь"
}

// chunks splits s on line boundaries into parts of at most limit bytes.
func chunks(s string, limit int) []string {
	if len(s) <= limit {
		return []string{s}
	}
	var (
		out []string
		b   strings.Builder
	)
	for _, line := range strings.Split(s, "\n") {
		for len(line) > limit {
			if b.Len() > 0 {
				out = append(out, b.String())
				b.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			out = append(out, line[:cut])
			line = line[cut:]
		}
		if b.Len() > 0 && b.Len()+1+len(line) > limit {
			out = append(out, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
