// Package config provides YAML-based configuration loading for the domino
// table: rule numbers, table defaults, the SSH server and storage.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jh2023at0610/telefondomino/internal/domino"
)

// Config contains all configuration for the domino table.
type Config struct {
	Rules   RulesConfig   `yaml:"rules"`
	Table   TableConfig   `yaml:"table"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// RulesConfig defines the scoring numbers of a match.
type RulesConfig struct {
	MatchTarget         int `yaml:"match_target"`
	BonusCap            int `yaml:"bonus_cap"`
	OpeningDoubleScore  int `yaml:"opening_double_score"`
	HandSizeTwoPlayers  int `yaml:"hand_size_two_players"`
	HandSizeMorePlayers int `yaml:"hand_size_more_players"`
}

// TableConfig defines how local and served tables are set up.
type TableConfig struct {
	Players     int              `yaml:"players"`
	Difficulty  DifficultyPreset `yaml:"difficulty"`
	BotStrategy string           `yaml:"bot_strategy"`
	BotDelayMS  int              `yaml:"bot_delay_ms"` // Pause before each bot action in the TUI
	AutoPass    bool             `yaml:"auto_pass"`    // Pass automatically for seats that are stuck
	Seed        int64            `yaml:"seed"`         // 0 = time based
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// StorageConfig defines where rooms and match history are kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// DomainRules converts the rules section into engine rules.
func (c Config) DomainRules() domino.Rules {
	return domino.Rules{
		MatchTarget:         c.Rules.MatchTarget,
		BonusCap:            c.Rules.BonusCap,
		OpeningDoubleScore:  c.Rules.OpeningDoubleScore,
		HandSizeTwoPlayers:  c.Rules.HandSizeTwoPlayers,
		HandSizeMorePlayers: c.Rules.HandSizeMorePlayers,
	}
}

// BotDelay returns the bot pause as a duration.
func (c Config) BotDelay() time.Duration {
	return time.Duration(c.Table.BotDelayMS) * time.Millisecond
}

// Validate checks that the configuration can produce a playable table.
func (c Config) Validate() error {
	var errs []error
	r := c.Rules
	if r.MatchTarget <= 0 {
		errs = append(errs, fmt.Errorf("rules.match_target must be positive, got %d", r.MatchTarget))
	}
	if r.BonusCap < 0 || r.BonusCap > r.MatchTarget {
		errs = append(errs, fmt.Errorf("rules.bonus_cap must be between 0 and match_target, got %d", r.BonusCap))
	}
	if r.HandSizeTwoPlayers <= 0 || r.HandSizeTwoPlayers*2 > domino.SetSize {
		errs = append(errs, fmt.Errorf("rules.hand_size_two_players out of range: %d", r.HandSizeTwoPlayers))
	}
	if r.HandSizeMorePlayers <= 0 || r.HandSizeMorePlayers*domino.MaxPlayers > domino.SetSize {
		errs = append(errs, fmt.Errorf("rules.hand_size_more_players out of range: %d", r.HandSizeMorePlayers))
	}
	if p := c.Table.Players; p < domino.MinPlayers || p > domino.MaxPlayers {
		errs = append(errs, fmt.Errorf("table.players must be between %d and %d, got %d", domino.MinPlayers, domino.MaxPlayers, p))
	}
	if c.Table.BotDelayMS < 0 {
		errs = append(errs, fmt.Errorf("table.bot_delay_ms must not be negative"))
	}
	return errors.Join(errs...)
}
