package server

// currentQuestion returns the question a player is facing. The question
// set wraps around so a player can keep answering past one full pass.
func currentQuestion(game *Game, player *Player) *Question {
	if len(game.Set.Questions) == 0 {
		return nil
	}
	return &game.Set.Questions[player.QuestionIndex%len(game.Set.Questions)]
}

func questionLimitReached(game *Game, player *Player) bool {
	if !scoringHasQuestionLimit(game.Settings.ScoringMode) {
		return false
	}
	limit := game.Settings.QuestionLimit
	return limit > 0 && player.QuestionIndex >= limit
}

// shuffleQuestionOrder runs once at game start when the host enabled it.
// The set is immutable for the rest of the game.
func (s *Server) shuffleQuestionOrder(game *Game) {
	questions := game.Set.Questions
	s.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

func questionPayload(question *Question) map[string]any {
	if question == nil {
		return nil
	}
	payload := map[string]any{
		"prompt":  question.Prompt,
		"choices": question.Choices,
	}
	if question.ImageRef != "" {
		payload["image_ref"] = question.ImageRef
	}
	return payload
}
