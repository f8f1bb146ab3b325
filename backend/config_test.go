package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tranquocphongvn/caro/engine"
)

func TestLoadOrCreateSettingsWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	config, err := loadOrCreateSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if config.Engine.Strategy != engine.StrategyThreat {
		t.Fatalf("expected default strategy, got %q", config.Engine.Strategy)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected defaults to be written: %v", err)
	}
	again, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Engine.Weights != config.Engine.Weights {
		t.Fatalf("stored weights differ after reload")
	}
}

func TestLoadSettingsKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"ai_seed": 7, "engine": {"strategy": "alphabeta"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	config, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if config.AiSeed != 7 || config.Engine.Strategy != engine.StrategyAlphaBeta {
		t.Fatalf("explicit keys not applied: %+v", config)
	}
	if config.Engine.Weights != engine.DefaultScoreTable() {
		t.Fatalf("missing weights must keep their defaults")
	}
}

func TestLoadSettingsRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"engine": {"tie_switch_chance": 2}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadOrCreateSettings(path); err == nil {
		t.Fatalf("expected parse error to surface")
	}
}

func TestConfigStoreRejectsInvalidUpdate(t *testing.T) {
	store := &ConfigStore{config: DefaultConfig()}
	bad := DefaultConfig()
	bad.Engine.Weights.Five = 0
	if err := store.Update(bad); err == nil {
		t.Fatalf("expected invalid weights to be rejected")
	}
	if store.Get().Engine.Weights.Five != engine.DefaultScoreTable().Five {
		t.Fatalf("rejected update must leave the store unchanged")
	}
}
