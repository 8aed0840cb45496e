package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultDBPath        = "deepsea.db"
	DefaultMigrationsDir = "migrations"
	DefaultGameDataDir   = "assets"
	DefaultArenaMaxStake = 5000
	DefaultLogLevel      = "info"
	DefaultSimAddr       = ":8090"
)

type Config struct {
	VKToken       string
	VKGroupID     int
	DBPath        string
	MigrationsDir string
	GameDataDir   string
	AdminUserID   int
	ArenaMaxStake int
	LogLevel      string
	SimAddr       string
}

// Load reads the bot configuration. VK credentials are required.
func Load() (*Config, error) {
	cfg, err := LoadSim()
	if err != nil {
		return nil, err
	}

	vkToken := os.Getenv("VK_TOKEN")
	group := os.Getenv("VK_GROUP_ID")
	if vkToken == "" || group == "" {
		return nil, fmt.Errorf("VK_TOKEN and VK_GROUP_ID are required")
	}
	groupID, err := strconv.Atoi(group)
	if err != nil {
		return nil, fmt.Errorf("invalid VK_GROUP_ID: %w", err)
	}
	cfg.VKToken = vkToken
	cfg.VKGroupID = groupID

	if s := os.Getenv("ADMIN_USER_ID"); s != "" {
		cfg.AdminUserID, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_USER_ID: %w", err)
		}
	}
	return cfg, nil
}

// LoadSim reads only what the offline simulator and shared components need.
func LoadSim() (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DBPath:        get("DB_PATH", DefaultDBPath),
		MigrationsDir: get("MIGRATIONS_DIR", DefaultMigrationsDir),
		GameDataDir:   get("GAMEDATA_DIR", DefaultGameDataDir),
		LogLevel:      strings.ToLower(get("LOG_LEVEL", DefaultLogLevel)),
		SimAddr:       get("SIM_ADDR", DefaultSimAddr),
		ArenaMaxStake: DefaultArenaMaxStake,
	}

	if s := os.Getenv("ARENA_MAX_STAKE"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ARENA_MAX_STAKE: %w", err)
		}
		if v < 0 {
			return nil, fmt.Errorf("invalid ARENA_MAX_STAKE: %d is negative", v)
		}
		cfg.ArenaMaxStake = v
	}
	return cfg, nil
}
