package server

import (
	"strings"
	"testing"

	"trivia-rush/internal/config"
)

func TestCreateGameAssignsUniqueCode(t *testing.T) {
	store := NewStore()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		game := store.CreateGame(testSettings(modeChest), testQuestionSet(), nil)
		if game.State != stateLobby {
			t.Fatalf("new game state = %q, want %q", game.State, stateLobby)
		}
		if len(game.Code) != 6 {
			t.Fatalf("join code %q is not 6 characters", game.Code)
		}
		if _, dup := seen[game.Code]; dup {
			t.Fatalf("duplicate join code %q", game.Code)
		}
		seen[game.Code] = struct{}{}
	}
}

func TestAddPlayerNameTaken(t *testing.T) {
	store := NewStore()
	game := store.CreateGame(testSettings(modeChest), testQuestionSet(), nil)

	if _, _, err := store.AddPlayer(game.Code, "Ada"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, _, err := store.AddPlayer(game.Code, "ada")
	if err == nil || kindOf(err) != kindConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
}

func TestAddPlayerLobbyFull(t *testing.T) {
	store := NewStore()
	settings := testSettings(modeChest)
	settings.MaxPlayers = 2
	game := store.CreateGame(settings, testQuestionSet(), nil)

	for _, name := range []string{"Ada", "Ben"} {
		if _, _, err := store.AddPlayer(game.Code, name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	_, _, err := store.AddPlayer(game.Code, "Cleo")
	if err == nil || kindOf(err) != kindValidation {
		t.Fatalf("expected validation error for full lobby, got %v", err)
	}
}

func TestAddPlayerAfterStart(t *testing.T) {
	srv := New(config.Default())
	game, _ := startedGame(t, srv, modeChest, "Ada")

	_, _, err := srv.store.AddPlayer(game.Code, "Ben")
	if err == nil || kindOf(err) != kindValidation {
		t.Fatalf("expected validation error after start, got %v", err)
	}
}

func TestAddPlayerAssignsDistinctSkins(t *testing.T) {
	store := NewStore()
	game := store.CreateGame(testSettings(modeChest), testQuestionSet(), nil)

	names := []string{"Ada", "Ben", "Cleo", "Dan"}
	for _, name := range names {
		if _, _, err := store.AddPlayer(game.Code, name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	skins := make(map[string]struct{})
	for _, player := range game.Players {
		if !validSkin(player.Skin) {
			t.Fatalf("player %s got unknown skin %q", player.Name, player.Skin)
		}
		if _, dup := skins[player.Skin]; dup {
			t.Fatalf("skin %q assigned twice", player.Skin)
		}
		skins[player.Skin] = struct{}{}
	}
}

func TestGetGameIsCaseInsensitive(t *testing.T) {
	store := NewStore()
	game := store.CreateGame(testSettings(modeChest), testQuestionSet(), nil)

	if _, ok := store.GetGame(strings.ToLower(game.Code)); !ok {
		t.Fatalf("lookup with lowercase code failed")
	}
}

func TestDeleteGame(t *testing.T) {
	store := NewStore()
	game := store.CreateGame(testSettings(modeChest), testQuestionSet(), nil)

	if !store.DeleteGame(game.Code) {
		t.Fatalf("expected delete to succeed")
	}
	if store.DeleteGame(game.Code) {
		t.Fatalf("expected second delete to report missing game")
	}
	if _, ok := store.GetGame(game.Code); ok {
		t.Fatalf("deleted game still resolvable")
	}
}
