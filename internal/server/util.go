package server

import "crypto/rand"

func newJoinCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

var skinCatalog = []string{
	"chick",
	"fox",
	"owl",
	"panda",
	"rhino",
	"tiger",
	"unicorn",
	"walrus",
	"astronaut",
	"wizard",
	"dragon",
	"yeti",
}

func skinTaken(game *Game, skin, exceptPlayerID string) bool {
	for i := range game.Players {
		if game.Players[i].ID == exceptPlayerID {
			continue
		}
		if game.Players[i].Skin == skin {
			return true
		}
	}
	return false
}

// defaultSkin hands a joining player the first free skin, cycling the
// catalog when a lobby outgrows it.
func defaultSkin(game *Game) string {
	for _, skin := range skinCatalog {
		if !skinTaken(game, skin, "") {
			return skin
		}
	}
	return skinCatalog[len(game.Players)%len(skinCatalog)]
}

func validSkin(skin string) bool {
	for _, candidate := range skinCatalog {
		if candidate == skin {
			return true
		}
	}
	return false
}
