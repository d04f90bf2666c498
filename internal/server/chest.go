package server

import (
	"fmt"
	"math"
)

const (
	chestBonusFlat    = "bonus_flat"
	chestBonusPercent = "bonus_percent"
	chestDouble       = "double"
	chestTriple       = "triple"
	chestMegaBonus    = "mega_bonus"
	chestNothing      = "nothing"
	chestLossPercent  = "loss_percent"
	chestLossFlat     = "loss_flat"
	chestChaos        = "chaos"
	chestStealPercent = "steal_percent"
	chestSwap         = "swap"
	chestNoEffect     = "no_effect"
	chestSkipped      = "skipped"
)

// chestOptionPool concatenates the gain, risk, and interaction pools.
// A fresh chest draws three options from a uniform shuffle of this pool.
func chestOptionPool() []ChestOption {
	return []ChestOption{
		{Type: chestBonusFlat, Label: "+25 Gold", Value: 25},
		{Type: chestBonusFlat, Label: "+50 Gold", Value: 50},
		{Type: chestBonusFlat, Label: "+75 Gold", Value: 75},
		{Type: chestBonusPercent, Label: "+10% Gold", Value: 10},
		{Type: chestBonusPercent, Label: "+25% Gold", Value: 25},
		{Type: chestDouble, Label: "Double Gold"},
		{Type: chestTriple, Label: "Triple Gold"},
		{Type: chestMegaBonus, Label: "Mega Bonus", Value: 200},

		{Type: chestNothing, Label: "Nothing..."},
		{Type: chestLossPercent, Label: "Lose 25%", Value: 25},
		{Type: chestLossPercent, Label: "Lose 50%", Value: 50},
		{Type: chestLossFlat, Label: "Lose 50 Gold", Value: 50},
		{Type: chestChaos, Label: "Total Chaos"},

		{Type: chestStealPercent, Label: "Steal 20%", Value: 20},
		{Type: chestStealPercent, Label: "Steal 50%", Value: 50},
		{Type: chestSwap, Label: "Swap Gold"},
	}
}

var chaosOutcomes = []struct {
	gain bool
	min  int
	max  int
}{
	{gain: true, min: 10, max: 100},
	{gain: true, min: 50, max: 150},
	{gain: true, min: 100, max: 250},
	{gain: false, min: 10, max: 100},
	{gain: false, min: 25, max: 150},
}

func (s *Server) generateChestOptions() []ChestOption {
	pool := chestOptionPool()
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	options := make([]ChestOption, 3)
	copy(options, pool[:3])
	return options
}

func (s *Server) openChest(player *Player) *PendingChest {
	player.Chest = &PendingChest{
		Phase:         chestPhaseChoose,
		Options:       s.generateChestOptions(),
		SelectedIndex: -1,
	}
	return player.Chest
}

func optionRequiresTarget(option ChestOption) bool {
	return option.Type == chestStealPercent || option.Type == chestSwap
}

func opponentsOf(game *Game, player *Player) []*Player {
	opponents := make([]*Player, 0, len(game.Players))
	for i := range game.Players {
		if game.Players[i].ID == player.ID {
			continue
		}
		opponents = append(opponents, &game.Players[i])
	}
	return opponents
}

// chestChoose picks one of the three options. Interaction options with at
// least one live opponent park the chest in the target phase; everything
// else resolves immediately.
func (s *Server) chestChoose(game *Game, player *Player, optionIndex int) (*PendingChest, error) {
	if game.State != stateLive {
		return nil, errInvalidState("game is not live")
	}
	chest := player.Chest
	if chest == nil || chest.Phase != chestPhaseChoose {
		return nil, errConflict("no chest is waiting for a choice")
	}
	if optionIndex < 0 || optionIndex >= len(chest.Options) {
		return nil, errValidation("option index %d is out of range", optionIndex)
	}
	chest.SelectedIndex = optionIndex
	option := chest.Options[optionIndex]

	if optionRequiresTarget(option) && len(opponentsOf(game, player)) > 0 {
		chest.Phase = chestPhaseTarget
		return chest, nil
	}

	chest.Result = s.resolveChest(game, player, option, nil)
	chest.Phase = chestPhaseResult
	logChestResult(game, chest.Result)
	return chest, nil
}

// chestTarget resolves an interaction option against a chosen opponent.
func (s *Server) chestTarget(game *Game, player *Player, targetID string) (*PendingChest, error) {
	if game.State != stateLive {
		return nil, errInvalidState("game is not live")
	}
	chest := player.Chest
	if chest == nil || chest.Phase != chestPhaseTarget {
		return nil, errConflict("no chest is waiting for a target")
	}
	// Opponents can leave between the choose and target phases.
	opponents := opponentsOf(game, player)
	if len(opponents) == 0 {
		return nil, errExhausted("no eligible opponents remain")
	}
	var target *Player
	for _, opponent := range opponents {
		if opponent.ID == targetID {
			target = opponent
			break
		}
	}
	if target == nil {
		return nil, errNotFound("target player is not an opponent")
	}
	option := chest.Options[chest.SelectedIndex]
	chest.Result = s.resolveChest(game, player, option, target)
	chest.Phase = chestPhaseResult
	logChestResult(game, chest.Result)
	return chest, nil
}

// chestSkip declines to pick a target; no balances move.
func (s *Server) chestSkip(game *Game, player *Player) (*PendingChest, error) {
	if game.State != stateLive {
		return nil, errInvalidState("game is not live")
	}
	chest := player.Chest
	if chest == nil || chest.Phase != chestPhaseTarget {
		return nil, errConflict("no chest is waiting for a target")
	}
	option := chest.Options[chest.SelectedIndex]
	chest.Result = createSkipResult(player, option)
	chest.Phase = chestPhaseResult
	return chest, nil
}

// chestNext acknowledges the result and clears the chest so the player
// can answer again.
func chestNext(game *Game, player *Player) error {
	chest := player.Chest
	if chest == nil || chest.Phase != chestPhaseResult {
		return errConflict("no chest result to acknowledge")
	}
	player.Chest = nil
	return nil
}

func createSkipResult(player *Player, option ChestOption) *ChestResult {
	balance := player.Gold
	return &ChestResult{
		Type:         chestSkipped,
		Label:        option.Label,
		Headline:     "Skipped",
		Text:         "You kept your gold to yourself.",
		PlayerBefore: balance,
		PlayerAfter:  balance,
	}
}

// resolveChest applies an option's arithmetic. All math is integer floor
// math and balances never go below zero. When an interaction option
// arrives without an explicit target, a random opponent is picked; with
// no opponents at all the result is a no-interaction outcome.
func (s *Server) resolveChest(game *Game, player *Player, option ChestOption, target *Player) *ChestResult {
	clampPlayerGold(player)
	before := player.Gold
	result := &ChestResult{
		Type:         option.Type,
		Label:        option.Label,
		PlayerBefore: before,
		PlayerAfter:  before,
	}

	switch option.Type {
	case chestBonusFlat:
		result.Delta = option.Value
		result.Headline = "Gold!"
	case chestBonusPercent:
		gain := int(math.Floor(float64(before) * float64(option.Value) / 100))
		if gain < 1 {
			gain = 1
		}
		result.Delta = gain
		result.Headline = "Gold!"
	case chestDouble:
		gain := before
		if gain <= 0 {
			gain = s.randRange(30, 70)
		}
		result.Delta = gain
		result.Headline = "Double Gold!"
	case chestTriple:
		gain := before * 2
		if before <= 0 {
			gain = s.randRange(75, 145)
		}
		result.Delta = gain
		result.Headline = "Triple Gold!"
	case chestMegaBonus:
		result.Delta = int(math.Floor(float64(option.Value) * 1.5))
		result.Headline = "Mega Bonus!"
	case chestNothing:
		result.Headline = "Nothing"
		result.Text = "The chest was empty."
	case chestLossPercent:
		loss := int(math.Floor(float64(before) * float64(option.Value) / 100))
		if loss > before {
			loss = before
		}
		result.Delta = -loss
		result.Headline = "Ouch!"
	case chestLossFlat:
		loss := option.Value
		if loss > before {
			loss = before
		}
		result.Delta = -loss
		result.Headline = "Ouch!"
	case chestChaos:
		outcome := chaosOutcomes[s.rng.Intn(len(chaosOutcomes))]
		amount := s.randRange(outcome.min, outcome.max)
		if outcome.gain {
			result.Delta = amount
			result.Headline = "Chaos Pays!"
		} else {
			if amount > before {
				amount = before
			}
			result.Delta = -amount
			result.Headline = "Chaos Strikes!"
		}
	case chestStealPercent:
		return s.resolveSteal(game, player, option, target)
	case chestSwap:
		return s.resolveSwap(game, player, option, target)
	}

	player.Gold = normalizeGold(float64(before + result.Delta))
	result.PlayerAfter = player.Gold
	if result.Text == "" {
		if result.Delta >= 0 {
			result.Text = fmt.Sprintf("You gained %d gold.", result.Delta)
		} else {
			result.Text = fmt.Sprintf("You lost %d gold.", -result.Delta)
		}
	}
	if result.Delta != 0 {
		verb := "found"
		if result.Delta < 0 {
			verb = "lost"
		}
		result.EventText = fmt.Sprintf("%s %s %d gold", player.Name, verb, abs(result.Delta))
	}
	return result
}

func (s *Server) resolveSteal(game *Game, player *Player, option ChestOption, target *Player) *ChestResult {
	if target == nil {
		target = s.randomOpponent(game, player)
	}
	before := player.Gold
	result := &ChestResult{
		Type:         option.Type,
		Label:        option.Label,
		PlayerBefore: before,
		PlayerAfter:  before,
	}
	if target == nil {
		result.NoInteraction = true
		result.Headline = "No One to Rob"
		result.Text = "There was no opponent to steal from."
		return result
	}
	clampPlayerGold(target)
	targetBefore := target.Gold
	result.TargetID = target.ID
	result.TargetName = target.Name
	result.TargetBefore = targetBefore
	result.TargetAfter = targetBefore
	if targetBefore == 0 {
		result.Type = chestNoEffect
		result.Headline = "Empty Pockets"
		result.Text = fmt.Sprintf("%s had no gold to steal.", target.Name)
		return result
	}
	steal := int(math.Floor(float64(targetBefore) * float64(option.Value) / 100))
	if steal < 1 {
		steal = 1
	}
	if steal > targetBefore {
		steal = targetBefore
	}
	player.Gold = normalizeGold(float64(before + steal))
	target.Gold = normalizeGold(float64(targetBefore - steal))
	result.Delta = steal
	result.PlayerAfter = player.Gold
	result.TargetAfter = target.Gold
	result.Headline = "Heist!"
	result.Text = fmt.Sprintf("You stole %d gold from %s.", steal, target.Name)
	result.EventText = fmt.Sprintf("%s stole %d gold from %s", player.Name, steal, target.Name)
	return result
}

func (s *Server) resolveSwap(game *Game, player *Player, option ChestOption, target *Player) *ChestResult {
	if target == nil {
		target = s.randomOpponent(game, player)
	}
	before := player.Gold
	result := &ChestResult{
		Type:         option.Type,
		Label:        option.Label,
		PlayerBefore: before,
		PlayerAfter:  before,
	}
	if target == nil {
		result.NoInteraction = true
		result.Headline = "No One to Swap With"
		result.Text = "There was no opponent to swap with."
		return result
	}
	clampPlayerGold(target)
	targetBefore := target.Gold
	player.Gold = targetBefore
	target.Gold = before
	result.Delta = targetBefore - before
	result.PlayerAfter = targetBefore
	result.TargetID = target.ID
	result.TargetName = target.Name
	result.TargetBefore = targetBefore
	result.TargetAfter = before
	result.Headline = "Swapped!"
	result.Text = fmt.Sprintf("You swapped gold with %s.", target.Name)
	result.EventText = fmt.Sprintf("%s swapped gold with %s", player.Name, target.Name)
	return result
}

func (s *Server) randomOpponent(game *Game, player *Player) *Player {
	opponents := opponentsOf(game, player)
	if len(opponents) == 0 {
		return nil
	}
	return opponents[s.rng.Intn(len(opponents))]
}

func logChestResult(game *Game, result *ChestResult) {
	if result == nil || result.EventText == "" {
		return
	}
	appendEvent(game, "chest", result.EventText, timeNowUTC())
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
