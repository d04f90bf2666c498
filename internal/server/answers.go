package server

import (
	"fmt"
	"time"
)

// submitAnswer is the single entry point that advances a player's
// question index and routes the reward into the game's mode engine.
// Wrong answers are ordinary outcomes, never errors.
func (s *Server) submitAnswer(game *Game, player *Player, answerIndex int, now time.Time) (*AnswerOutcome, error) {
	syncClock(game, now)
	switch game.State {
	case stateLobby:
		return nil, errInvalidState("game has not started")
	case stateEnded:
		return &AnswerOutcome{Finished: true}, nil
	}
	if questionLimitReached(game, player) {
		return &AnswerOutcome{Finished: true}, nil
	}

	switch game.Settings.ModeFamily {
	case modeChest:
		if player.Chest != nil {
			return nil, errConflict("resolve the open chest before answering")
		}
	case modeCatch:
		state := ensureFishing(player)
		syncFishing(state, now)
		if state.Phase != fishPhaseQuestion {
			return nil, errConflict("answers are only allowed in the %q phase, currently %q", fishPhaseQuestion, state.Phase)
		}
	}

	question := currentQuestion(game, player)
	if question == nil {
		return nil, errValidation("game has no questions")
	}
	if answerIndex < 0 || answerIndex >= len(question.Choices) {
		return nil, errValidation("answer index %d is out of range", answerIndex)
	}

	correct := answerIndex == question.CorrectIndex
	outcome := &AnswerOutcome{
		Correct:      correct,
		CorrectIndex: question.CorrectIndex,
	}

	switch game.Settings.ModeFamily {
	case modeChest:
		if correct {
			reward := s.randRange(s.cfg.ChestRewardMin, s.cfg.ChestRewardMax)
			player.Gold += reward
			outcome.GoldDelta = reward
			outcome.Chest = s.openChest(player)
		}
	case modeCatch:
		state := player.Fishing
		amount := 0
		if correct && state.PendingCatch != nil {
			amount = state.PendingCatch.Final
			player.Gold += amount
			appendEvent(game, "catch", fmt.Sprintf("%s reeled in a %s (%d lbs)", player.Name, state.PendingCatch.Name, amount), now)
			s.maybeBrewPotion(game, now)
		}
		state.LastResult = &CatchOutcome{
			Caught: correct,
			Amount: amount,
			Catch:  state.PendingCatch,
		}
		state.Phase = fishPhaseResult
		outcome.GoldDelta = amount
		outcome.Catch = state.LastResult
	case modePuzzle:
		if correct {
			reward := s.puzzleReward(game.Settings.ScoringMode)
			player.Gold += reward
			outcome.GoldDelta = reward
			reveal := revealNextTile(game, now)
			outcome.Puzzle = &reveal
		}
	}

	player.QuestionIndex++
	clampPlayerGold(player)
	return outcome, nil
}

func (s *Server) puzzleReward(scoringMode string) int {
	if scoringHasTimer(scoringMode) {
		return s.randRange(s.cfg.PuzzleTimedRewardMin, s.cfg.PuzzleTimedRewardMax)
	}
	return s.randRange(s.cfg.PuzzleRewardMin, s.cfg.PuzzleRewardMax)
}
