package config

import "testing"

func TestLoad_RequiresVKCredentials(t *testing.T) {
	t.Setenv("VK_TOKEN", "")
	t.Setenv("VK_GROUP_ID", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected an error without VK credentials")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VK_TOKEN", "token")
	t.Setenv("VK_GROUP_ID", "123")
	t.Setenv("DB_PATH", "")
	t.Setenv("ARENA_MAX_STAKE", "")
	t.Setenv("ADMIN_USER_ID", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.VKGroupID != 123 || cfg.AdminUserID != 42 {
		t.Fatalf("unexpected ids: %+v", cfg)
	}
	if cfg.DBPath != DefaultDBPath || cfg.ArenaMaxStake != DefaultArenaMaxStake || cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadSim_ParsesStake(t *testing.T) {
	t.Setenv("ARENA_MAX_STAKE", "abc")
	if _, err := LoadSim(); err == nil {
		t.Fatalf("expected parse error")
	}
	t.Setenv("ARENA_MAX_STAKE", "250")
	cfg, err := LoadSim()
	if err != nil || cfg.ArenaMaxStake != 250 {
		t.Fatalf("got %+v, %v", cfg, err)
	}
}
