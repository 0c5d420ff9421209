package config

// DifficultyPreset represents a named opponent strength.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// StrategyForPreset returns the bot strategy used by a difficulty preset.
// Unknown presets fall back to the configured strategy.
func StrategyForPreset(preset DifficultyPreset, fallback string) string {
	switch preset {
	case DifficultyEasy:
		return "first"
	case DifficultyNormal:
		return "greedy"
	case DifficultyHard:
		return "blocker"
	default:
		return fallback
	}
}

// ApplyPreset sets the bot strategy and pacing for a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	cfg.Table.Difficulty = preset
	cfg.Table.BotStrategy = StrategyForPreset(preset, cfg.Table.BotStrategy)

	switch preset {
	case DifficultyEasy:
		cfg.Table.BotDelayMS = 900
	case DifficultyHard:
		cfg.Table.BotDelayMS = 300
	}
}
