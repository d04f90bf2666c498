package server

import "time"

const (
	stateLobby = "lobby"
	stateLive  = "live"
	stateEnded = "ended"
)

const (
	modeChest  = "chest"
	modeCatch  = "catch"
	modePuzzle = "puzzle"
)

const (
	scoringQuestion = "question"
	scoringTimed    = "timed"
	scoringHybrid   = "hybrid"
)

const (
	chestPhaseChoose = "choose"
	chestPhaseTarget = "target"
	chestPhaseResult = "result"
)

const (
	fishPhaseCast     = "cast"
	fishPhaseWaiting  = "waiting"
	fishPhasePull     = "pull"
	fishPhaseQuestion = "question"
	fishPhaseResult   = "result"
)

type Settings struct {
	ModeFamily           string
	ScoringMode          string
	QuestionLimit        int
	TimeLimitSeconds     int
	MaxPlayers           int
	FeedbackDelaySeconds int
	ShuffleQuestions     bool
}

type Question struct {
	Prompt       string
	Choices      []string
	CorrectIndex int
	ImageRef     string
}

type QuestionSet struct {
	Title     string
	Questions []Question
}

type Game struct {
	Code      string
	State     string
	Settings  Settings
	Set       QuestionSet
	CreatedAt time.Time
	StartedAt time.Time
	EndsAt    time.Time
	EndedAt   time.Time
	Players   []Player
	Events    []EventEntry
	Puzzle    *PuzzleState
	World     *WorldEffect
}

type Player struct {
	ID            string
	Name          string
	Skin          string
	Gold          int
	QuestionIndex int
	JoinedAt      time.Time

	// Exactly one of these is ever non-nil, matching the game's mode family.
	Chest   *PendingChest
	Fishing *FishingState
}

type PendingChest struct {
	Phase         string
	Options       []ChestOption
	SelectedIndex int
	Result        *ChestResult
}

type ChestOption struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Value int    `json:"value,omitempty"`
}

type ChestResult struct {
	Type          string `json:"type"`
	Label         string `json:"label"`
	Headline      string `json:"headline"`
	Text          string `json:"text"`
	Delta         int    `json:"delta"`
	PlayerBefore  int    `json:"player_before"`
	PlayerAfter   int    `json:"player_after"`
	TargetID      string `json:"target_id,omitempty"`
	TargetName    string `json:"target_name,omitempty"`
	TargetBefore  int    `json:"target_before,omitempty"`
	TargetAfter   int    `json:"target_after,omitempty"`
	NoInteraction bool   `json:"no_interaction,omitempty"`
	EventText     string `json:"-"`
}

type FishingState struct {
	Phase        string
	WaitUntil    time.Time
	PendingCatch *CatchRoll
	LastResult   *CatchOutcome
}

type CatchRoll struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Tier     string      `json:"tier"`
	Rarity   string      `json:"rarity"`
	Base     int         `json:"base_lbs"`
	Final    int         `json:"final_lbs"`
	Tide     *TideShift  `json:"tide,omitempty"`
	Event    *CatchEvent `json:"event,omitempty"`
	ImageRef string      `json:"image_ref,omitempty"`
}

type TideShift struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Bonus      int     `json:"bonus_lbs"`
}

type CatchEvent struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	FlatBonus  int     `json:"flat_bonus"`
	TierBoost  int     `json:"tier_boost"`
	Bonus      int     `json:"bonus_lbs"`
}

type CatchOutcome struct {
	Caught bool       `json:"caught"`
	Amount int        `json:"amount"`
	Catch  *CatchRoll `json:"catch,omitempty"`
}

type WorldEffect struct {
	Label     string    `json:"label"`
	Style     string    `json:"style"`
	StartedAt time.Time `json:"started_at"`
	Until     time.Time `json:"until"`
}

type PuzzleState struct {
	Rows         int
	Cols         int
	TotalTiles   int
	Order        []int
	Revealed     []int
	LastRevealed int
	CompletedAt  time.Time
	ImageRef     string
}

type RevealResult struct {
	TileIndex  int  `json:"tile_index"`
	Revealed   int  `json:"revealed"`
	TotalTiles int  `json:"total_tiles"`
	Completed  bool `json:"completed"`
}

type EventEntry struct {
	At   time.Time `json:"at"`
	Kind string    `json:"kind"`
	Text string    `json:"text"`
}

type AnswerOutcome struct {
	Correct      bool           `json:"correct"`
	Finished     bool           `json:"finished"`
	CorrectIndex int            `json:"correct_index"`
	GoldDelta    int            `json:"gold_delta"`
	Chest        *PendingChest  `json:"-"`
	Catch        *CatchOutcome  `json:"catch,omitempty"`
	Puzzle       *RevealResult  `json:"puzzle,omitempty"`
}
