package server

import "time"

func scoringHasTimer(mode string) bool {
	return mode == scoringTimed || mode == scoringHybrid
}

func scoringHasQuestionLimit(mode string) bool {
	return mode == scoringQuestion || mode == scoringHybrid
}

// syncClock applies the lazy, pull-based expiry check. There is no
// background timer; a timed game ends the next time anything touches it
// after its deadline. Safe to call any number of times.
func syncClock(game *Game, now time.Time) {
	if game.State != stateLive {
		return
	}
	if !scoringHasTimer(game.Settings.ScoringMode) {
		return
	}
	if game.EndsAt.IsZero() || now.Before(game.EndsAt) {
		return
	}
	game.State = stateEnded
	game.EndedAt = now
	appendEvent(game, "game_ended", "time is up", now)
}

func startGame(game *Game, now time.Time) error {
	if game.State != stateLobby {
		return errInvalidState("game can only start from the lobby")
	}
	if len(game.Players) == 0 {
		return errInvalidState("cannot start with no players")
	}
	game.State = stateLive
	game.StartedAt = now
	if scoringHasTimer(game.Settings.ScoringMode) && game.Settings.TimeLimitSeconds > 0 {
		game.EndsAt = now.Add(time.Duration(game.Settings.TimeLimitSeconds) * time.Second)
	}
	appendEvent(game, "game_started", "the game is live", now)
	return nil
}

func endGame(game *Game, now time.Time) error {
	if game.State == stateEnded {
		return errInvalidState("game has already ended")
	}
	game.State = stateEnded
	game.EndedAt = now
	appendEvent(game, "game_ended", "the host ended the game", now)
	return nil
}

const defaultEventLogLimit = 200

func appendEvent(game *Game, kind, text string, at time.Time) {
	game.Events = append(game.Events, EventEntry{
		At:   at,
		Kind: kind,
		Text: text,
	})
	if overflow := len(game.Events) - defaultEventLogLimit; overflow > 0 {
		game.Events = game.Events[overflow:]
	}
}
