package server

import "math"

// normalizeGold floors amount to an integer and clamps it to zero.
// Non-finite inputs normalize to zero.
func normalizeGold(amount float64) int {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	value := int(math.Floor(amount))
	if value < 0 {
		return 0
	}
	return value
}

func clampPlayerGold(player *Player) {
	player.Gold = normalizeGold(float64(player.Gold))
}

func clampGameGold(game *Game) {
	for i := range game.Players {
		clampPlayerGold(&game.Players[i])
	}
}
