package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength    = 20
	maxTitleLength   = 80
	maxPromptLength  = 200
	maxChoiceLength  = 120
	maxQuestionCount = 100
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("playername", func(fl validator.FieldLevel) bool {
			_, err := validateName(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("skin", func(fl validator.FieldLevel) bool {
			return validSkin(fl.Field().String())
		})
	})
}

func validateName(name string) (string, error) {
	return validateText("name", name, maxNameLength)
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '"', '.', ',', '!', '?', ':', ';', '&', '(', ')', '/':
			continue
		default:
			return false
		}
	}
	return true
}

func validateSettings(settings *Settings, maxLobbyPlayers int) error {
	switch settings.ModeFamily {
	case modeChest, modeCatch, modePuzzle:
	default:
		return errors.New("mode must be one of chest, catch, puzzle")
	}
	switch settings.ScoringMode {
	case scoringQuestion, scoringTimed, scoringHybrid:
	default:
		return errors.New("scoring mode must be one of question, timed, hybrid")
	}
	if settings.QuestionLimit < 0 {
		return errors.New("question limit cannot be negative")
	}
	if settings.TimeLimitSeconds < 0 {
		return errors.New("time limit cannot be negative")
	}
	if scoringHasTimer(settings.ScoringMode) && settings.TimeLimitSeconds == 0 {
		return errors.New("a timed scoring mode needs a time limit")
	}
	if settings.MaxPlayers < 0 || settings.MaxPlayers > maxLobbyPlayers {
		return fmt.Errorf("max players must be between 0 and %d", maxLobbyPlayers)
	}
	if settings.FeedbackDelaySeconds < 0 {
		return errors.New("feedback delay cannot be negative")
	}
	return nil
}
