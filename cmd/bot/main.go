package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"deepsea/internal/application"
	"deepsea/internal/delivery/vk"
	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
	"deepsea/internal/logging"
	"deepsea/internal/repository"
	"deepsea/internal/storage"
	"deepsea/pkg/config"

	"github.com/SevereCloud/vksdk/v2/api"
	longpoll "github.com/SevereCloud/vksdk/v2/longpoll-bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := storage.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer db.Close()

	applied, err := storage.Migrate(context.Background(), db, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	data, err := gamedata.LoadAll(cfg.GameDataDir)
	if err != nil {
		logger.Fatal("failed to load game data", zap.Error(err))
	}
	logger.Info("game data loaded",
		zap.Int("skills", data.Skills.Len()),
		zap.Int("species", len(data.Species.All())),
		zap.Int("corridor_tiers", len(data.Corridor.Tiers)),
	)

	engine := duel.NewEngine(data.Skills, duel.WithLogger(logger.Named("duel")))

	playerRepo := repository.NewPlayerRepository(db)
	fishRepo := repository.NewFishRepository(db)
	itemRepo := repository.NewItemRepository(db)
	duelRepo := repository.NewDuelRepository(db)

	locks := application.NewPlayerLocks()
	players := application.NewPlayerService(playerRepo, fishRepo, itemRepo, duelRepo)
	fishing := application.NewFishingService(db, players, fishRepo, data.Species, locks, logger)
	arena := application.NewArenaService(db, engine, players, playerRepo, fishRepo, duelRepo, locks, cfg.ArenaMaxStake, logger)
	corridor := application.NewCorridorService(db, engine, data, players, playerRepo, fishRepo, itemRepo, duelRepo, locks, logger)
	admin := application.NewAdminService(int64(cfg.AdminUserID), players, logger)

	vkAPI := api.NewVK(cfg.VKToken)

	handler := vk.NewHandler(vkAPI, logger, players, fishing, arena, corridor, admin)

	lp, err := longpoll.NewLongPoll(vkAPI, cfg.VKGroupID)
	if err != nil {
		logger.Fatal("longpoll init error", zap.Error(err))
	}

	handler.Start(lp)

	logger.Info("deepsea bot started", zap.Int("group_id", cfg.VKGroupID))

	go func() {
		if err := lp.Run(); err != nil {
			logger.Fatal("longpoll error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	lp.Shutdown()
}
