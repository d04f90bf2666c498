package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"trivia-rush/internal/config"
)

// TestChestGameFlow drives a full chest game over HTTP: create, join,
// start, answer, then resolve the chest the correct answer opened.
func TestChestGameFlow(t *testing.T) {
	srv := seededServer(config.Default(), 41)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	code := createGameHTTP(t, ts, modeChest)
	ada := joinPlayerHTTP(t, ts, code, "Ada")
	joinPlayerHTTP(t, ts, code, "Ben")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status %d", resp.StatusCode)
	}
	view := decodeBody(t, resp)
	if view["state"] != stateLive {
		t.Fatalf("state after start = %v", view["state"])
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/answer", map[string]any{
		"player_id":    ada,
		"answer_index": 0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer: status %d", resp.StatusCode)
	}
	answer := decodeBody(t, resp)
	if answer["correct"] != true {
		t.Fatalf("answer payload: %v", answer)
	}
	if answer["chest"] == nil {
		t.Fatalf("correct answer did not return a chest: %v", answer)
	}
	if _, ok := answer["correct_index"]; !ok {
		t.Fatalf("answer payload missing correct_index: %v", answer)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/chest/choose", map[string]any{
		"player_id":    ada,
		"option_index": 0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chest choose: status %d", resp.StatusCode)
	}
	chest := decodeBody(t, resp)
	phase, _ := chest["phase"].(string)
	if phase != chestPhaseResult && phase != chestPhaseTarget {
		t.Fatalf("chest phase after choose = %q", phase)
	}

	if phase == chestPhaseTarget {
		resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/chest/skip", map[string]any{"player_id": ada})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("chest skip: status %d", resp.StatusCode)
		}
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/chest/next", map[string]any{"player_id": ada})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("chest next: status %d", resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+code+"/players/"+ada, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("player view: status %d", resp.StatusCode)
	}
	player := decodeBody(t, resp)
	if player["chest"] != nil {
		t.Fatalf("chest still open after next: %v", player["chest"])
	}
}

func TestLobbyLifecycleOverHTTP(t *testing.T) {
	srv := seededServer(config.Default(), 43)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	code := createGameHTTP(t, ts, modeChest)
	ada := joinPlayerHTTP(t, ts, code, "Ada")

	// Duplicate names conflict, case-insensitively.
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/join", map[string]any{"name": "ada"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate join: status %d", resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/skin", map[string]any{
		"player_id": ada,
		"skin":      "dragon",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("skin: status %d", resp.StatusCode)
	}

	ben := joinPlayerHTTP(t, ts, code, "Ben")
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/kick", map[string]any{"player_id": ben})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("kick: status %d", resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+code, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lobby view: status %d", resp.StatusCode)
	}
	view := decodeBody(t, resp)
	if players, _ := view["players"].([]any); len(players) != 1 {
		t.Fatalf("players after kick: %v", view["players"])
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/settings", map[string]any{
		"scoring_mode":       scoringHybrid,
		"question_limit":     5,
		"time_limit_seconds": 120,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settings: status %d", resp.StatusCode)
	}
	view = decodeBody(t, resp)
	settings, _ := view["settings"].(map[string]any)
	if settings["scoring_mode"] != scoringHybrid {
		t.Fatalf("settings payload: %v", settings)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status %d", resp.StatusCode)
	}

	// Live games reject joins and setting changes.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/join", map[string]any{"name": "Cam"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("join after start: status %d", resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/settings", map[string]any{"question_limit": 3})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("settings after start: status %d", resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/end", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end: status %d", resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/end", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double end: status %d", resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodDelete, "/api/games/"+code, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+code, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("view after delete: status %d", resp.StatusCode)
	}
}

func TestErrorStatusesOverHTTP(t *testing.T) {
	srv := seededServer(config.Default(), 47)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	resp := doRequest(t, ts, http.MethodGet, "/api/games/NOPE42", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing game: status %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["kind"] != string(kindNotFound) {
		t.Fatalf("missing game kind = %v", body["kind"])
	}

	code := createGameHTTP(t, ts, modeChest)
	ada := joinPlayerHTTP(t, ts, code, "Ada")

	// Fishing endpoints only serve catch games.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/fishing/cast", map[string]any{"player_id": ada})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("fishing in chest game: status %d", resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/answer", map[string]any{"player_id": ada})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("answer without index: status %d", resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/join", map[string]any{"name": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty name: status %d", resp.StatusCode)
	}
}

// Puzzle creation rolls the reveal permutation; those rolls share the
// server RNG with every in-game roll, so concurrent creations must stay
// serialized. Run with -race to check the RNG is never used unlocked.
func TestConcurrentPuzzleGameCreation(t *testing.T) {
	srv := seededServer(config.Default(), 59)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	const workers = 8
	const perWorker = 20
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				resp, err := ts.Client().Post(ts.URL+"/api/games", "application/json", strings.NewReader(
					`{"mode":"puzzle","questions":[{"prompt":"Capital of France?","choices":["Paris","Rome"],"correct_index":0,"image_ref":"img/paris.jpg"}]}`,
				))
				if err != nil {
					errs <- err
					return
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusCreated {
					errs <- fmt.Errorf("create game: status %d", resp.StatusCode)
					return
				}
			}
			errs <- nil
		}()
	}
	wg.Wait()
	for i := 0; i < workers; i++ {
		if err := <-errs; err != nil {
			t.Fatal(err)
		}
	}
}

func TestFishingFlowOverHTTP(t *testing.T) {
	cfg := config.Default()
	cfg.BiteDelayMinMs = 1
	cfg.BiteDelayMaxMs = 1
	cfg.TideChance = 0
	cfg.CatchEventChance = 0
	cfg.RareCatchChance = 0
	cfg.PotionChance = 0
	srv := seededServer(cfg, 53)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	code := createGameHTTP(t, ts, modeCatch)
	ada := joinPlayerHTTP(t, ts, code, "Ada")
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status %d", resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/fishing/cast", map[string]any{"player_id": ada})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cast: status %d", resp.StatusCode)
	}
	cast := decodeBody(t, resp)
	if cast["phase"] != fishPhaseWaiting {
		t.Fatalf("cast payload: %v", cast)
	}
	if _, ok := cast["catch"]; ok {
		t.Fatalf("cast payload leaks the pending catch: %v", cast)
	}

	// Outwait the one millisecond bite delay.
	time.Sleep(5 * time.Millisecond)
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/fishing/pull", map[string]any{"player_id": ada})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pull: status %d", resp.StatusCode)
	}
	pull := decodeBody(t, resp)
	if pull["phase"] != fishPhaseQuestion {
		t.Fatalf("pull payload: %v", pull)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/answer", map[string]any{
		"player_id":    ada,
		"answer_index": 0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer: status %d", resp.StatusCode)
	}
	answer := decodeBody(t, resp)
	if answer["correct"] != true || answer["catch"] == nil {
		t.Fatalf("answer payload: %v", answer)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+code+"/fishing/next", map[string]any{"player_id": ada})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("next: status %d", resp.StatusCode)
	}
	next := decodeBody(t, resp)
	if next["phase"] != fishPhaseCast {
		t.Fatalf("next payload: %v", next)
	}
}
