package server

import (
	"sort"
	"time"
)

// lobbyView is the shared snapshot every poller and websocket client
// sees. Pure read; the lazy clock check runs before it is built.
func lobbyView(game *Game, now time.Time) map[string]any {
	players := make([]map[string]any, 0, len(game.Players))
	for i := range game.Players {
		player := &game.Players[i]
		players = append(players, map[string]any{
			"id":   player.ID,
			"name": player.Name,
			"skin": player.Skin,
			"gold": player.Gold,
		})
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i]["gold"].(int) > players[j]["gold"].(int)
	})

	view := map[string]any{
		"code":    game.Code,
		"state":   game.State,
		"title":   game.Set.Title,
		"mode":    game.Settings.ModeFamily,
		"players": players,
		"events":  recentEvents(game, 30),
		"settings": map[string]any{
			"scoring_mode":           game.Settings.ScoringMode,
			"question_limit":         game.Settings.QuestionLimit,
			"time_limit_seconds":     game.Settings.TimeLimitSeconds,
			"max_players":            game.Settings.MaxPlayers,
			"feedback_delay_seconds": game.Settings.FeedbackDelaySeconds,
			"shuffle_questions":      game.Settings.ShuffleQuestions,
		},
	}
	if seconds, ok := remainingSeconds(game, now); ok {
		view["remaining_seconds"] = seconds
	}
	if game.Puzzle != nil {
		view["puzzle"] = puzzlePayload(game.Puzzle)
	}
	if effect := activeWorldEffect(game, now); effect != nil {
		view["world_effect"] = effect
	}
	return view
}

// playerView is the per-player snapshot: balance, current question, and
// the phase payload for the game's mode.
func playerView(game *Game, player *Player, now time.Time) map[string]any {
	view := map[string]any{
		"state":          game.State,
		"mode":           game.Settings.ModeFamily,
		"player_id":      player.ID,
		"name":           player.Name,
		"skin":           player.Skin,
		"gold":           player.Gold,
		"question_index": player.QuestionIndex,
	}
	if seconds, ok := remainingSeconds(game, now); ok {
		view["remaining_seconds"] = seconds
	}
	if game.State == stateLive && !questionLimitReached(game, player) {
		view["question"] = questionPayload(currentQuestion(game, player))
	}

	switch game.Settings.ModeFamily {
	case modeChest:
		if player.Chest != nil {
			view["chest"] = chestPayload(game, player)
		}
	case modeCatch:
		state := ensureFishing(player)
		syncFishing(state, now)
		view["fishing"] = fishingPayload(state, now)
	case modePuzzle:
		if game.Puzzle != nil {
			view["puzzle"] = puzzlePayload(game.Puzzle)
		}
	}
	if effect := activeWorldEffect(game, now); effect != nil {
		view["world_effect"] = effect
	}
	return view
}

func chestPayload(game *Game, player *Player) map[string]any {
	chest := player.Chest
	payload := map[string]any{
		"phase":   chest.Phase,
		"options": chest.Options,
	}
	if chest.Phase == chestPhaseTarget {
		payload["opponents"] = opponentsPayload(game, player)
	}
	if chest.Result != nil {
		payload["result"] = chest.Result
	}
	return payload
}

func fishingPayload(state *FishingState, now time.Time) map[string]any {
	payload := map[string]any{
		"phase": state.Phase,
	}
	if state.Phase == fishPhaseWaiting {
		payload["wait_remaining_ms"] = state.WaitUntil.Sub(now).Milliseconds()
	}
	// The rolled catch stays hidden until the player hooks it.
	if state.PendingCatch != nil && (state.Phase == fishPhaseQuestion || state.Phase == fishPhaseResult) {
		payload["catch"] = state.PendingCatch
	}
	if state.LastResult != nil {
		payload["result"] = state.LastResult
	}
	return payload
}

func opponentsPayload(game *Game, player *Player) []map[string]any {
	opponents := opponentsOf(game, player)
	payload := make([]map[string]any, 0, len(opponents))
	for _, opponent := range opponents {
		payload = append(payload, map[string]any{
			"id":   opponent.ID,
			"name": opponent.Name,
			"gold": opponent.Gold,
			"skin": opponent.Skin,
		})
	}
	return payload
}

func puzzlePayload(puzzle *PuzzleState) map[string]any {
	payload := map[string]any{
		"rows":           puzzle.Rows,
		"cols":           puzzle.Cols,
		"total_tiles":    puzzle.TotalTiles,
		"revealed":       append([]int(nil), puzzle.Revealed...),
		"revealed_count": len(puzzle.Revealed),
		"last_revealed":  puzzle.LastRevealed,
		"completed":      puzzle.completed(),
	}
	if puzzle.ImageRef != "" {
		payload["image_ref"] = puzzle.ImageRef
	}
	return payload
}

func remainingSeconds(game *Game, now time.Time) (int, bool) {
	if game.State != stateLive || !scoringHasTimer(game.Settings.ScoringMode) || game.EndsAt.IsZero() {
		return 0, false
	}
	remaining := int(game.EndsAt.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

func recentEvents(game *Game, limit int) []EventEntry {
	if len(game.Events) <= limit {
		return append([]EventEntry(nil), game.Events...)
	}
	return append([]EventEntry(nil), game.Events[len(game.Events)-limit:]...)
}
