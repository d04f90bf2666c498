package server

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the authoritative in-memory session registry. Every mutating
// operation runs inside UpdateGame so phase checks and their writes are
// atomic with respect to other callers touching the same game.
type Store struct {
	mu    sync.Mutex
	games map[string]*Game
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]*Game),
	}
}

// CreateGame registers a new lobby. newPuzzle, when non-nil, is invoked
// under the store mutex so its permutation roll is serialized with every
// other use of the server RNG.
func (s *Store) CreateGame(settings Settings, set QuestionSet, newPuzzle func(QuestionSet) *PuzzleState) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := newJoinCode()
	for {
		if _, taken := s.games[code]; !taken {
			break
		}
		code = newJoinCode()
	}
	game := &Game{
		Code:      code,
		State:     stateLobby,
		Settings:  settings,
		Set:       set,
		CreatedAt: timeNowUTC(),
	}
	if newPuzzle != nil {
		game.Puzzle = newPuzzle(set)
	}
	s.games[code] = game
	return game
}

func (s *Store) GetGame(code string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[strings.ToUpper(code)]
	if ok {
		now := timeNowUTC()
		syncClock(game, now)
		syncWorld(game, now)
	}
	return game, ok
}

func (s *Store) UpdateGame(code string, update func(game *Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[strings.ToUpper(code)]
	if !ok {
		return nil, errNotFound("game %q not found", code)
	}
	now := timeNowUTC()
	syncClock(game, now)
	syncWorld(game, now)
	if err := update(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *Store) DeleteGame(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	code = strings.ToUpper(code)
	if _, ok := s.games[code]; !ok {
		return false
	}
	delete(s.games, code)
	return true
}

func (s *Store) AddPlayer(code, name string) (*Game, *Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[strings.ToUpper(code)]
	if !ok {
		return nil, nil, errNotFound("game %q not found", code)
	}
	now := timeNowUTC()
	syncClock(game, now)

	if game.State != stateLobby {
		return nil, nil, errValidation("game is no longer accepting players")
	}
	for i := range game.Players {
		if strings.EqualFold(game.Players[i].Name, name) {
			return nil, nil, errConflict("name %q is already taken", name)
		}
	}
	if game.Settings.MaxPlayers > 0 && len(game.Players) >= game.Settings.MaxPlayers {
		return nil, nil, errValidation("lobby is full")
	}

	player := Player{
		ID:       uuid.NewString(),
		Name:     name,
		Skin:     defaultSkin(game),
		JoinedAt: now,
	}
	game.Players = append(game.Players, player)
	appendEvent(game, "player_joined", name+" joined the lobby", now)
	return game, &game.Players[len(game.Players)-1], nil
}

func (s *Store) FindPlayer(game *Game, playerID string) (*Player, bool) {
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			return &game.Players[i], true
		}
	}
	return nil, false
}

func (s *Store) RemovePlayer(game *Game, playerID string) bool {
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			game.Players = append(game.Players[:i], game.Players[i+1:]...)
			return true
		}
	}
	return false
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
