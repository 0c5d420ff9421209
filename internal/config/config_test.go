package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultDominoYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults drifted from Default():\n%+v\n%+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadCustomPathKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "table:\n  players: 4\nserver:\n  idle_timeout: 5m\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Table.Players != 4 {
		t.Errorf("expected 4 players, got %d", cfg.Table.Players)
	}
	if cfg.Server.IdleTimeout != 5*time.Minute {
		t.Errorf("expected 5m idle timeout, got %s", cfg.Server.IdleTimeout)
	}
	if cfg.Rules.MatchTarget != 365 || cfg.Table.BotStrategy != "greedy" {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rules: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"players too few", func(c *Config) { c.Table.Players = 1 }, "table.players"},
		{"players too many", func(c *Config) { c.Table.Players = 5 }, "table.players"},
		{"cap above target", func(c *Config) { c.Rules.BonusCap = 400 }, "rules.bonus_cap"},
		{"hand too big", func(c *Config) { c.Rules.HandSizeMorePlayers = 8 }, "hand_size_more_players"},
		{"zero target", func(c *Config) { c.Rules.MatchTarget = 0 }, "rules.match_target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error mentioning %s, got %v", tt.field, err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset   DifficultyPreset
		strategy string
		delay    int
	}{
		{DifficultyEasy, "first", 900},
		{DifficultyNormal, "greedy", 600},
		{DifficultyHard, "blocker", 300},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := Default()
			ApplyPreset(&cfg, tt.preset)
			if cfg.Table.BotStrategy != tt.strategy || cfg.Table.BotDelayMS != tt.delay {
				t.Errorf("got strategy=%s delay=%d", cfg.Table.BotStrategy, cfg.Table.BotDelayMS)
			}
		})
	}
}

func TestDomainRules(t *testing.T) {
	cfg := Default()
	r := cfg.DomainRules()
	if r.MatchTarget != 365 || r.BonusCap != 300 || r.HandSize(2) != 7 || r.HandSize(3) != 5 {
		t.Errorf("unexpected rules: %+v", r)
	}
	if cfg.BotDelay() != 600*time.Millisecond {
		t.Errorf("unexpected bot delay %s", cfg.BotDelay())
	}
}
