package server

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"trivia-rush/internal/config"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func seededServer(cfg config.Config, seed int64) *Server {
	srv := New(cfg)
	srv.rng = rand.New(rand.NewSource(seed))
	return srv
}

func testQuestionSet() QuestionSet {
	return QuestionSet{
		Title: "Capitals",
		Questions: []Question{
			{
				Prompt:       "Capital of France?",
				Choices:      []string{"Paris", "Rome", "Madrid", "Berlin"},
				CorrectIndex: 0,
				ImageRef:     "img/paris.jpg",
			},
			{
				Prompt:       "Capital of Japan?",
				Choices:      []string{"Kyoto", "Tokyo"},
				CorrectIndex: 1,
			},
		},
	}
}

func testSettings(mode string) Settings {
	return Settings{
		ModeFamily:  mode,
		ScoringMode: scoringQuestion,
		MaxPlayers:  12,
	}
}

// startedGame creates a live game with the named players joined.
func startedGame(t *testing.T, srv *Server, mode string, names ...string) (*Game, []*Player) {
	t.Helper()
	var newPuzzle func(QuestionSet) *PuzzleState
	if mode == modePuzzle {
		newPuzzle = srv.newPuzzleState
	}
	game := srv.store.CreateGame(testSettings(mode), testQuestionSet(), newPuzzle)
	for _, name := range names {
		if _, _, err := srv.store.AddPlayer(game.Code, name); err != nil {
			t.Fatalf("add player %s: %v", name, err)
		}
	}
	if err := startGame(game, timeNowUTC()); err != nil {
		t.Fatalf("start game: %v", err)
	}
	// Grab pointers only after all joins so append cannot move them.
	players := make([]*Player, len(game.Players))
	for i := range game.Players {
		players[i] = &game.Players[i]
	}
	return game, players
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func createGameHTTP(t *testing.T, ts *httptest.Server, mode string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]any{
		"mode":  mode,
		"title": "Capitals",
		"questions": []map[string]any{
			{"prompt": "Capital of France?", "choices": []string{"Paris", "Rome"}, "correct_index": 0},
			{"prompt": "Capital of Japan?", "choices": []string{"Kyoto", "Tokyo"}, "correct_index": 1},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game: status %d", resp.StatusCode)
	}
	payload := decodeBody(t, resp)
	code, _ := payload["code"].(string)
	if code == "" {
		t.Fatalf("create game: missing code in %v", payload)
	}
	return code
}

func joinPlayerHTTP(t *testing.T, ts *httptest.Server, code, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/join", map[string]any{"name": name})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("join %s: status %d", name, resp.StatusCode)
	}
	payload := decodeBody(t, resp)
	id, _ := payload["player_id"].(string)
	if id == "" {
		t.Fatalf("join %s: missing player_id in %v", name, payload)
	}
	return id
}
