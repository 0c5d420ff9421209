package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/domino.yaml
var defaultDominoYAML []byte

// Default returns the default domino configuration.
func Default() Config {
	return Config{
		Rules: RulesConfig{
			MatchTarget:         365,
			BonusCap:            300,
			OpeningDoubleScore:  10,
			HandSizeTwoPlayers:  7,
			HandSizeMorePlayers: 5,
		},
		Table: TableConfig{
			Players:     2,
			Difficulty:  DifficultyNormal,
			BotStrategy: "greedy",
			BotDelayMS:  600,
			AutoPass:    true,
		},
		Server: ServerConfig{
			Address:     "0.0.0.0:23234",
			HostKeyPath: ".ssh/domino_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Storage: StorageConfig{
			DBPath: "~/.domino/domino.db",
		},
	}
}
