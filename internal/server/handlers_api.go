package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type questionRequest struct {
	Prompt       string   `json:"prompt" binding:"required"`
	Choices      []string `json:"choices" binding:"required,min=2,max=6"`
	CorrectIndex int      `json:"correct_index"`
	ImageRef     string   `json:"image_ref"`
}

type createGameRequest struct {
	Mode                 string            `json:"mode" binding:"required"`
	ScoringMode          string            `json:"scoring_mode"`
	QuestionLimit        int               `json:"question_limit"`
	TimeLimitSeconds     int               `json:"time_limit_seconds"`
	MaxPlayers           int               `json:"max_players"`
	FeedbackDelaySeconds *int              `json:"feedback_delay_seconds"`
	ShuffleQuestions     bool              `json:"shuffle_questions"`
	Title                string            `json:"title"`
	Questions            []questionRequest `json:"questions" binding:"required,min=1,max=100,dive"`
}

type joinRequest struct {
	Name string `json:"name" binding:"required,playername"`
}

type playerRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type kickRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type skinRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Skin     string `json:"skin" binding:"required,skin"`
}

type settingsRequest struct {
	ScoringMode          *string `json:"scoring_mode"`
	QuestionLimit        *int    `json:"question_limit"`
	TimeLimitSeconds     *int    `json:"time_limit_seconds"`
	MaxPlayers           *int    `json:"max_players"`
	FeedbackDelaySeconds *int    `json:"feedback_delay_seconds"`
	ShuffleQuestions     *bool   `json:"shuffle_questions"`
}

type answerRequest struct {
	PlayerID    string `json:"player_id" binding:"required"`
	AnswerIndex *int   `json:"answer_index" binding:"required"`
}

type chestChooseRequest struct {
	PlayerID    string `json:"player_id" binding:"required"`
	OptionIndex *int   `json:"option_index" binding:"required"`
}

type chestTargetRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
}

func writeGameError(c *gin.Context, err error) {
	kind := kindOf(err)
	if kind == "" {
		log.Printf("internal error path=%s error=%v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": err.Error(), "kind": string(kind)})
}

func (s *Server) handleCreateGame(c *gin.Context) {
	registerValidators()
	var req createGameRequest
	if !bindJSON(c, &req, bindMessages{
		"Mode":      {"required": "mode is required"},
		"Questions": {"required": "at least one question is required", "min": "at least one question is required"},
	}, "") {
		return
	}

	settings := Settings{
		ModeFamily:           req.Mode,
		ScoringMode:          req.ScoringMode,
		QuestionLimit:        req.QuestionLimit,
		TimeLimitSeconds:     req.TimeLimitSeconds,
		MaxPlayers:           req.MaxPlayers,
		FeedbackDelaySeconds: s.cfg.FeedbackDelaySeconds,
		ShuffleQuestions:     req.ShuffleQuestions,
	}
	if settings.ScoringMode == "" {
		settings.ScoringMode = scoringQuestion
	}
	if settings.MaxPlayers == 0 {
		settings.MaxPlayers = s.cfg.MaxLobbyPlayers
	}
	if req.FeedbackDelaySeconds != nil {
		settings.FeedbackDelaySeconds = *req.FeedbackDelaySeconds
	}
	if err := validateSettings(&settings, s.cfg.MaxLobbyPlayers); err != nil {
		writeGameError(c, errValidation("%s", err.Error()))
		return
	}

	set := QuestionSet{Title: normalizeText(req.Title)}
	if len(set.Title) > maxTitleLength {
		writeGameError(c, errValidation("title must be %d characters or fewer", maxTitleLength))
		return
	}
	for i, question := range req.Questions {
		prompt, err := validateText("prompt", question.Prompt, maxPromptLength)
		if err != nil {
			writeGameError(c, errValidation("question %d: %s", i+1, err.Error()))
			return
		}
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Choices) {
			writeGameError(c, errValidation("question %d: correct index is out of range", i+1))
			return
		}
		choices := make([]string, len(question.Choices))
		for j, choice := range question.Choices {
			clean, err := validateText("choice", choice, maxChoiceLength)
			if err != nil {
				writeGameError(c, errValidation("question %d: %s", i+1, err.Error()))
				return
			}
			choices[j] = clean
		}
		set.Questions = append(set.Questions, Question{
			Prompt:       prompt,
			Choices:      choices,
			CorrectIndex: question.CorrectIndex,
			ImageRef:     question.ImageRef,
		})
	}

	var newPuzzle func(QuestionSet) *PuzzleState
	if settings.ModeFamily == modePuzzle {
		newPuzzle = s.newPuzzleState
	}
	game := s.store.CreateGame(settings, set, newPuzzle)
	log.Printf("game created game_code=%s mode=%s questions=%d", game.Code, settings.ModeFamily, len(set.Questions))
	c.JSON(http.StatusCreated, gin.H{
		"code": game.Code,
		"view": lobbyView(game, timeNowUTC()),
	})
}

func (s *Server) handleLobbyView(c *gin.Context) {
	game, ok := s.store.GetGame(c.Param("code"))
	if !ok {
		writeGameError(c, errNotFound("game %q not found", c.Param("code")))
		return
	}
	c.JSON(http.StatusOK, lobbyView(game, timeNowUTC()))
}

func (s *Server) handleDeleteGame(c *gin.Context) {
	code := c.Param("code")
	if !s.store.DeleteGame(code) {
		writeGameError(c, errNotFound("game %q not found", code))
		return
	}
	log.Printf("game deleted game_code=%s", code)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleJoin(c *gin.Context) {
	registerValidators()
	var req joinRequest
	if !bindJSON(c, &req, bindMessages{
		"Name": {"required": "name is required", "playername": "name is invalid"},
	}, "") {
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeGameError(c, errValidation("%s", err.Error()))
		return
	}
	game, player, err := s.store.AddPlayer(c.Param("code"), name)
	if err != nil {
		writeGameError(c, err)
		return
	}
	log.Printf("player joined game_code=%s player_id=%s name=%s", game.Code, player.ID, player.Name)
	c.JSON(http.StatusCreated, gin.H{
		"player_id": player.ID,
		"name":      player.Name,
		"skin":      player.Skin,
	})
	s.broadcastLobby(game)
}

func (s *Server) handleStart(c *gin.Context) {
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		if err := startGame(game, timeNowUTC()); err != nil {
			return err
		}
		if game.Settings.ShuffleQuestions {
			s.shuffleQuestionOrder(game)
		}
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	log.Printf("game started game_code=%s players=%d", game.Code, len(game.Players))
	c.JSON(http.StatusOK, lobbyView(game, timeNowUTC()))
	s.broadcastLobby(game)
}

func (s *Server) handleEnd(c *gin.Context) {
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		return endGame(game, timeNowUTC())
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	log.Printf("game ended game_code=%s", game.Code)
	c.JSON(http.StatusOK, lobbyView(game, timeNowUTC()))
	s.broadcastLobby(game)
}

func (s *Server) handleSettings(c *gin.Context) {
	var req settingsRequest
	if !bindJSON(c, &req, nil, "") {
		return
	}
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		if game.State != stateLobby {
			return errInvalidState("settings can only change in the lobby")
		}
		settings := game.Settings
		if req.ScoringMode != nil {
			settings.ScoringMode = *req.ScoringMode
		}
		if req.QuestionLimit != nil {
			settings.QuestionLimit = *req.QuestionLimit
		}
		if req.TimeLimitSeconds != nil {
			settings.TimeLimitSeconds = *req.TimeLimitSeconds
		}
		if req.MaxPlayers != nil {
			settings.MaxPlayers = *req.MaxPlayers
		}
		if req.FeedbackDelaySeconds != nil {
			settings.FeedbackDelaySeconds = *req.FeedbackDelaySeconds
		}
		if req.ShuffleQuestions != nil {
			settings.ShuffleQuestions = *req.ShuffleQuestions
		}
		if err := validateSettings(&settings, s.cfg.MaxLobbyPlayers); err != nil {
			return errValidation("%s", err.Error())
		}
		if settings.MaxPlayers > 0 && len(game.Players) > settings.MaxPlayers {
			return errValidation("max players cannot drop below the current player count")
		}
		game.Settings = settings
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, lobbyView(game, timeNowUTC()))
	s.broadcastLobby(game)
}

func (s *Server) handleKick(c *gin.Context) {
	var req kickRequest
	if !bindJSON(c, &req, nil, "player_id is required") {
		return
	}
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		player, ok := s.store.FindPlayer(game, req.PlayerID)
		if !ok {
			return errNotFound("player not found")
		}
		name := player.Name
		s.store.RemovePlayer(game, req.PlayerID)
		appendEvent(game, "player_kicked", name+" was removed from the game", timeNowUTC())
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
	s.broadcastLobby(game)
}

func (s *Server) handleSkin(c *gin.Context) {
	registerValidators()
	var req skinRequest
	if !bindJSON(c, &req, bindMessages{
		"Skin": {"required": "skin is required", "skin": "unknown skin"},
	}, "") {
		return
	}
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		if game.State != stateLobby {
			return errInvalidState("skins can only change in the lobby")
		}
		player, ok := s.store.FindPlayer(game, req.PlayerID)
		if !ok {
			return errNotFound("player not found")
		}
		if skinTaken(game, req.Skin, player.ID) {
			return errConflict("skin %q is already taken", req.Skin)
		}
		player.Skin = req.Skin
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
	s.broadcastLobby(game)
}

func (s *Server) handlePlayerView(c *gin.Context) {
	var view map[string]any
	_, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		player, ok := s.store.FindPlayer(game, c.Param("player_id"))
		if !ok {
			return errNotFound("player not found")
		}
		view = playerView(game, player, timeNowUTC())
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if !bindJSON(c, &req, nil, "player_id and answer_index are required") {
		return
	}
	var outcome *AnswerOutcome
	var chest map[string]any
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		player, ok := s.store.FindPlayer(game, req.PlayerID)
		if !ok {
			return errNotFound("player not found")
		}
		result, err := s.submitAnswer(game, player, *req.AnswerIndex, timeNowUTC())
		if err != nil {
			return err
		}
		outcome = result
		if outcome.Chest != nil {
			chest = chestPayload(game, player)
		}
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	resp := gin.H{
		"correct":                outcome.Correct,
		"finished":               outcome.Finished,
		"gold_delta":             outcome.GoldDelta,
		"feedback_delay_seconds": game.Settings.FeedbackDelaySeconds,
	}
	if !outcome.Finished {
		resp["correct_index"] = outcome.CorrectIndex
	}
	if chest != nil {
		resp["chest"] = chest
	}
	if outcome.Catch != nil {
		resp["catch"] = outcome.Catch
	}
	if outcome.Puzzle != nil {
		resp["puzzle"] = outcome.Puzzle
	}
	c.JSON(http.StatusOK, resp)
	s.broadcastLobby(game)
}

func (s *Server) handleChestChoose(c *gin.Context) {
	var req chestChooseRequest
	if !bindJSON(c, &req, nil, "player_id and option_index are required") {
		return
	}
	s.handleChestAction(c, req.PlayerID, func(game *Game, player *Player) (*PendingChest, error) {
		return s.chestChoose(game, player, *req.OptionIndex)
	})
}

func (s *Server) handleChestTarget(c *gin.Context) {
	var req chestTargetRequest
	if !bindJSON(c, &req, nil, "player_id and target_id are required") {
		return
	}
	s.handleChestAction(c, req.PlayerID, func(game *Game, player *Player) (*PendingChest, error) {
		return s.chestTarget(game, player, req.TargetID)
	})
}

func (s *Server) handleChestSkip(c *gin.Context) {
	var req playerRequest
	if !bindJSON(c, &req, nil, "player_id is required") {
		return
	}
	s.handleChestAction(c, req.PlayerID, func(game *Game, player *Player) (*PendingChest, error) {
		return s.chestSkip(game, player)
	})
}

func (s *Server) handleChestNext(c *gin.Context) {
	var req playerRequest
	if !bindJSON(c, &req, nil, "player_id is required") {
		return
	}
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		player, ok := s.store.FindPlayer(game, req.PlayerID)
		if !ok {
			return errNotFound("player not found")
		}
		return chestNext(game, player)
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
	s.broadcastLobby(game)
}

func (s *Server) handleChestAction(c *gin.Context, playerID string, action func(game *Game, player *Player) (*PendingChest, error)) {
	var payload map[string]any
	game, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		if game.Settings.ModeFamily != modeChest {
			return errValidation("game mode is not chest")
		}
		player, ok := s.store.FindPlayer(game, playerID)
		if !ok {
			return errNotFound("player not found")
		}
		if _, err := action(game, player); err != nil {
			return err
		}
		payload = chestPayload(game, player)
		payload["gold"] = player.Gold
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
	s.broadcastLobby(game)
}

func (s *Server) handleFishingCast(c *gin.Context) {
	s.handleFishingAction(c, s.fishingCast)
}

func (s *Server) handleFishingPull(c *gin.Context) {
	s.handleFishingAction(c, s.fishingPull)
}

func (s *Server) handleFishingNext(c *gin.Context) {
	s.handleFishingAction(c, s.fishingNext)
}

func (s *Server) handleFishingAction(c *gin.Context, action func(game *Game, player *Player, now time.Time) (*FishingState, error)) {
	var req playerRequest
	if !bindJSON(c, &req, nil, "player_id is required") {
		return
	}
	var payload map[string]any
	now := timeNowUTC()
	_, err := s.store.UpdateGame(c.Param("code"), func(game *Game) error {
		if game.Settings.ModeFamily != modeCatch {
			return errValidation("game mode is not catch")
		}
		player, ok := s.store.FindPlayer(game, req.PlayerID)
		if !ok {
			return errNotFound("player not found")
		}
		state, err := action(game, player, now)
		if err != nil {
			return err
		}
		payload = fishingPayload(state, now)
		payload["gold"] = player.Gold
		return nil
	})
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
