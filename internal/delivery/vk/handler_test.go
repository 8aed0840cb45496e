package vk

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"deepsea/internal/application"
	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
	"deepsea/internal/repository"
	"deepsea/internal/storage"

	"github.com/SevereCloud/vksdk/v2/api"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []api.Params
}

func (f *fakeSender) MessagesSend(p api.Params) (int, error) {
	f.sent = append(f.sent, p)
	return len(f.sent), nil
}

const adminVK = 77

func newTestHandler(t *testing.T) (*Handler, *fakeSender) {
	t.Helper()
	db, err := storage.NewSQLite(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.RunMigrations(db, filepath.Join("..", "..", "..", "migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	data, err := gamedata.LoadAll(filepath.Join("..", "..", "..", "assets"))
	if err != nil {
		t.Fatalf("load assets: %v", err)
	}

	log := zap.NewNop()
	engine := duel.NewEngine(data.Skills, duel.WithLogger(log))
	playerDB := repository.NewPlayerRepository(db)
	fishDB := repository.NewFishRepository(db)
	itemDB := repository.NewItemRepository(db)
	duelDB := repository.NewDuelRepository(db)
	locks := application.NewPlayerLocks()

	players := application.NewPlayerService(playerDB, fishDB, itemDB, duelDB)
	sender := &fakeSender{}
	h := NewHandler(sender, log,
		players,
		application.NewFishingService(db, players, fishDB, data.Species, locks, log),
		application.NewArenaService(db, engine, players, playerDB, fishDB, duelDB, locks, 1000, log),
		application.NewCorridorService(db, engine, data, players, playerDB, fishDB, itemDB, duelDB, locks, log),
		application.NewAdminService(adminVK, players, log),
	)
	return h, sender
}

func say(h *Handler, from int, text string) string {
	return h.Handle(context.Background(), Message{FromID: from, PeerID: 2000000001, Text: text})
}

func TestHandle_BasicCommands(t *testing.T) {
	h, _ := newTestHandler(t)

	if got := say(h, 1, "!ping"); got != "pong" {
		t.Fatalf("ping: %q", got)
	}
	if got := say(h, 1, "просто болтаю"); got != "" {
		t.Fatalf("plain chat must be ignored, got %q", got)
	}
	if got := say(h, -5, "!ping"); got != "" {
		t.Fatalf("community messages must be ignored, got %q", got)
	}
	if got := say(h, 1, "!танцы"); !strings.Contains(got, "!помощь") {
		t.Fatalf("unknown command: %q", got)
	}
	for _, glued := range []string{"!имяВася", "!пруды", "!pingpong"} {
		if got := say(h, 1, glued); !strings.Contains(got, "Неизвестная команда") {
			t.Fatalf("%q must not match a shorter command, got %q", glued, got)
		}
	}
	if got := say(h, 1, "!Помощь"); got != helpText {
		t.Fatalf("help is case-insensitive, got %q", got)
	}
}

func TestHandle_ProfileFlow(t *testing.T) {
	h, _ := newTestHandler(t)

	if got := say(h, 1, "!имя Капитан Немо"); !strings.Contains(got, "Капитан Немо") {
		t.Fatalf("rename: %q", got)
	}
	if got := say(h, 1, "!школа дух"); !strings.Contains(got, "Дух") {
		t.Fatalf("school: %q", got)
	}
	if got := say(h, 1, "!школа огонь"); !strings.Contains(got, "Такой школы нет") {
		t.Fatalf("bad school: %q", got)
	}
	if got := say(h, 1, "!рыбалка"); !strings.Contains(got, "Улов") {
		t.Fatalf("cast: %q", got)
	}
	if got := say(h, 1, "!рыбалка"); !strings.Contains(got, "Подождите") {
		t.Fatalf("second cast should hit the cooldown: %q", got)
	}
	got := say(h, 1, "!профиль")
	if !strings.Contains(got, "Капитан Немо") || !strings.Contains(got, "Рыб в пруду: 1") {
		t.Fatalf("profile: %q", got)
	}
	if got := say(h, 1, "!отряд 1 2"); !strings.Contains(got, "ровно из 5") {
		t.Fatalf("short squad: %q", got)
	}
	if got := say(h, 1, "!арена 1"); !strings.Contains(got, "с собой") {
		t.Fatalf("self duel: %q", got)
	}
	if got := say(h, 1, "!коридор"); !strings.Contains(got, "ровно из 5") {
		t.Fatalf("corridor without squad: %q", got)
	}
	if got := say(h, 1, "!история"); !strings.Contains(got, "не было") {
		t.Fatalf("history: %q", got)
	}
}

func TestHandle_AdminOnly(t *testing.T) {
	h, _ := newTestHandler(t)
	say(h, 5, "!профиль")

	if got := say(h, 5, "!gm выдать 5 100"); got != "" {
		t.Fatalf("non-admin gm command must be silent, got %q", got)
	}
	if got := say(h, adminVK, "!gm выдать [id5|Игрок] 100"); !strings.Contains(got, "баланс 200") {
		t.Fatalf("grant: %q", got)
	}
}

func TestParseTarget(t *testing.T) {
	cases := map[string]int64{
		"123":                 123,
		"id123":               123,
		"@id123":              123,
		"[id123|Вася]":        123,
		"https://vk.com/id42": 42,
	}
	for in, want := range cases {
		if got, ok := parseTarget(in); !ok || got != want {
			t.Fatalf("parseTarget(%q) = %d, %v", in, got, ok)
		}
	}
	for _, bad := range []string{"", "вася", "id", "-3"} {
		if _, ok := parseTarget(bad); ok {
			t.Fatalf("parseTarget(%q) should fail", bad)
		}
	}
}

func TestChunksKeepLinesAndRunes(t *testing.T) {
	line := strings.Repeat("ж", 30) // 60 bytes
	text := strings.Join([]string{line, line, line}, "\n")

	parts := chunks(text, 130)
	if len(parts) != 2 || parts[0] != line+"\n"+line || parts[1] != line {
		t.Fatalf("unexpected split: %q", parts)
	}
	for _, p := range chunks(line, 25) {
		if len(p) > 25 || !utf8.ValidString(p) {
			t.Fatalf("bad chunk %q", p)
		}
	}
}

func TestSendSplitsLongReports(t *testing.T) {
	h, sender := newTestHandler(t)
	long := strings.Repeat(strings.Repeat("а", 100)+"\n", 100)
	h.send(42, long)
	if len(sender.sent) < 2 {
		t.Fatalf("expected several messages, got %d", len(sender.sent))
	}
	for _, p := range sender.sent {
		if len(p["message"].(string)) > maxMessageLen || p["peer_id"] != 42 {
			t.Fatalf("bad message params: %v", p["peer_id"])
		}
	}
}

func TestChunksWithoutRuneStarts(t *testing.T) {
	junk := strings.Repeat("\x80", 50)
	parts := chunks(junk, 20)
	if len(parts) != 3 || strings.Join(parts, "") != junk {
		t.Fatalf("unexpected split of %d bytes: %d parts", len(junk), len(parts))
	}
	for _, p := range parts {
		if p == "" || len(p) > 20 {
			t.Fatalf("bad chunk length %d", len(p))
		}
	}
}
