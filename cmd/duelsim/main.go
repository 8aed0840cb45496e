package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"deepsea/internal/duel"
	"deepsea/internal/gamedata"
	"deepsea/internal/logging"
	"deepsea/internal/simapi"
	"deepsea/pkg/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadSim()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dataDir := flag.String("data", cfg.GameDataDir, "game data directory")
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	n := flag.Int("n", 1, "number of duels; above 1 prints a win-rate summary")
	serve := flag.Bool("http", false, "serve the simulator API on SIM_ADDR")
	rosterA := flag.String("a", "", "comma separated species for side A (random if empty)")
	rosterB := flag.String("b", "", "comma separated species for side B (random if empty)")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	data, err := gamedata.LoadAll(*dataDir)
	if err != nil {
		logger.Fatal("failed to load game data", zap.Error(err))
	}
	engine := duel.NewEngine(data.Skills, duel.WithLogger(logger.Named("duel")))

	if *serve {
		srv := simapi.NewServer(engine, data, logger)
		logger.Info("simulator listening", zap.String("addr", cfg.SimAddr))
		if err := http.ListenAndServe(cfg.SimAddr, srv.Router()); err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
		return
	}

	if *seed == 0 {
		*seed = duel.NewRand(0).Int63()
	}
	rng := duel.NewRand(*seed)
	a, err := roster(data.Species, "A", *rosterA, rng)
	if err != nil {
		logger.Fatal("side A", zap.Error(err))
	}
	b, err := roster(data.Species, "B", *rosterB, rng)
	if err != nil {
		logger.Fatal("side B", zap.Error(err))
	}
	fmt.Printf("seed %d\nA: %s\nB: %s\n\n", *seed, names(a), names(b))

	if *n > 1 {
		st, err := simapi.Batch(engine, *seed, *n, a, b)
		if err != nil {
			logger.Fatal("batch failed", zap.Error(err))
		}
		fmt.Println(st)
		return
	}

	res, err := engine.Run(duel.NewRand(*seed), a, b)
	if err != nil {
		logger.Fatal("duel failed", zap.Error(err))
	}
	fmt.Println(res.Text())
}

func roster(cat *gamedata.Catalogue, id, list string, rng duel.Rand) (duel.RosterSpec, error) {
	if list == "" {
		return simapi.RandomRoster(cat, id, rng), nil
	}
	r := duel.RosterSpec{ID: id, Name: id}
	for _, name := range strings.Split(list, ",") {
		r.Creatures = append(r.Creatures, duel.CreatureSpec{Name: strings.TrimSpace(name)})
	}
	return simapi.Fill(cat, r)
}

func names(r duel.RosterSpec) string {
	out := make([]string, len(r.Creatures))
	for i, c := range r.Creatures {
		out[i] = c.Name
	}
	return strings.Join(out, ", ")
}
