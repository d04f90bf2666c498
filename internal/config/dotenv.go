package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	MaxLobbyPlayers      int
	FeedbackDelaySeconds int

	ChestRewardMin int
	ChestRewardMax int

	PuzzleRewardMin      int
	PuzzleRewardMax      int
	PuzzleTimedRewardMin int
	PuzzleTimedRewardMax int

	RareCatchChance  float64
	TideChance       float64
	CatchEventChance float64
	PotionChance     float64
	BiteDelayMinMs   int
	BiteDelayMaxMs   int
}

func Default() Config {
	return Config{
		MaxLobbyPlayers:      60,
		FeedbackDelaySeconds: 2,
		ChestRewardMin:       10,
		ChestRewardMax:       25,
		PuzzleRewardMin:      10,
		PuzzleRewardMax:      25,
		PuzzleTimedRewardMin: 15,
		PuzzleTimedRewardMax: 40,
		RareCatchChance:      0.08,
		TideChance:           0.15,
		CatchEventChance:     0.10,
		PotionChance:         0.05,
		BiteDelayMinMs:       1300,
		BiteDelayMaxMs:       3600,
	}
}

func Load() Config {
	cfg := Default()
	loadInt(&cfg.MaxLobbyPlayers, "MAX_LOBBY_PLAYERS")
	loadInt(&cfg.FeedbackDelaySeconds, "FEEDBACK_DELAY_SECONDS")
	loadInt(&cfg.ChestRewardMin, "CHEST_REWARD_MIN")
	loadInt(&cfg.ChestRewardMax, "CHEST_REWARD_MAX")
	loadInt(&cfg.PuzzleRewardMin, "PUZZLE_REWARD_MIN")
	loadInt(&cfg.PuzzleRewardMax, "PUZZLE_REWARD_MAX")
	loadInt(&cfg.PuzzleTimedRewardMin, "PUZZLE_TIMED_REWARD_MIN")
	loadInt(&cfg.PuzzleTimedRewardMax, "PUZZLE_TIMED_REWARD_MAX")
	loadFloat(&cfg.RareCatchChance, "RARE_CATCH_CHANCE")
	loadFloat(&cfg.TideChance, "TIDE_CHANCE")
	loadFloat(&cfg.CatchEventChance, "CATCH_EVENT_CHANCE")
	loadFloat(&cfg.PotionChance, "POTION_CHANCE")
	loadInt(&cfg.BiteDelayMinMs, "BITE_DELAY_MIN_MS")
	loadInt(&cfg.BiteDelayMaxMs, "BITE_DELAY_MAX_MS")
	return cfg
}

func loadInt(dest *int, key string) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}
	if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
		*dest = value
	}
}

func loadFloat(dest *float64, key string) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}
	if value, err := strconv.ParseFloat(raw, 64); err == nil && value >= 0 && value <= 1 {
		*dest = value
	}
}
