package server

import (
	"math"
	"testing"
)

func TestNormalizeGold(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		want   int
	}{
		{"positive", 42, 42},
		{"floors", 12.9, 12},
		{"negative clamps", -5, 0},
		{"negative fraction clamps", -0.3, 0},
		{"zero", 0, 0},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"negative inf", math.Inf(-1), 0},
	}
	for _, tc := range cases {
		if got := normalizeGold(tc.amount); got != tc.want {
			t.Errorf("%s: normalizeGold(%v) = %d, want %d", tc.name, tc.amount, got, tc.want)
		}
	}
}

func TestClampGameGold(t *testing.T) {
	game := &Game{
		Players: []Player{
			{Name: "Ada", Gold: -10},
			{Name: "Ben", Gold: 7},
		},
	}
	clampGameGold(game)
	if game.Players[0].Gold != 0 {
		t.Fatalf("expected negative balance clamped to 0, got %d", game.Players[0].Gold)
	}
	if game.Players[1].Gold != 7 {
		t.Fatalf("expected positive balance untouched, got %d", game.Players[1].Gold)
	}
}
