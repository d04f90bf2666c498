package server

import (
	"fmt"
	"time"
)

const (
	rarityCommon = "common"
	rarityRare   = "rare"
)

type catchTableEntry struct {
	ID       string
	Name     string
	Tier     string
	Weight   int
	Min      int
	Max      int
	ImageRef string
}

// Ordered tier scale; event tier boosts step along it and clamp at the top.
var catchTiers = []string{"common", "uncommon", "rare", "epic", "legendary"}

var commonCatches = []catchTableEntry{
	{ID: "minnow", Name: "Minnow", Tier: "common", Weight: 40, Min: 1, Max: 3, ImageRef: "fish/minnow.svg"},
	{ID: "carp", Name: "Carp", Tier: "common", Weight: 30, Min: 2, Max: 6, ImageRef: "fish/carp.svg"},
	{ID: "bass", Name: "Bass", Tier: "uncommon", Weight: 15, Min: 5, Max: 12, ImageRef: "fish/bass.svg"},
	{ID: "salmon", Name: "Salmon", Tier: "uncommon", Weight: 10, Min: 8, Max: 18, ImageRef: "fish/salmon.svg"},
	{ID: "swordfish", Name: "Swordfish", Tier: "rare", Weight: 5, Min: 15, Max: 30, ImageRef: "fish/swordfish.svg"},
}

var rareCatches = []catchTableEntry{
	{ID: "golden-koi", Name: "Golden Koi", Tier: "epic", Weight: 60, Min: 25, Max: 50, ImageRef: "fish/golden-koi.svg"},
	{ID: "kraken", Name: "Kraken", Tier: "legendary", Weight: 30, Min: 40, Max: 80, ImageRef: "fish/kraken.svg"},
	{ID: "leviathan", Name: "Leviathan", Tier: "legendary", Weight: 10, Min: 75, Max: 150, ImageRef: "fish/leviathan.svg"},
}

type tideTableEntry struct {
	Name       string
	Multiplier float64
}

var tideShifts = []tideTableEntry{
	{Name: "Rising Tide", Multiplier: 1.3},
	{Name: "High Tide", Multiplier: 1.5},
	{Name: "King Tide", Multiplier: 1.8},
}

type catchEventEntry struct {
	Name         string
	Multiplier   float64
	FlatMin      int
	FlatMax      int
	MaxTierBoost int
}

var catchEvents = []catchEventEntry{
	{Name: "Feeding Frenzy", Multiplier: 1.5, FlatMin: 5, FlatMax: 15, MaxTierBoost: 1},
	{Name: "Lightning Storm", Multiplier: 2.0, FlatMin: 10, FlatMax: 25, MaxTierBoost: 2},
}

type potionTableEntry struct {
	Label    string
	Style    string
	Duration time.Duration
}

var potionBrews = []potionTableEntry{
	{Label: "Murky Waters", Style: "murky", Duration: 45 * time.Second},
	{Label: "Golden Hour", Style: "golden", Duration: 30 * time.Second},
	{Label: "Frenzy Brew", Style: "frenzy", Duration: 20 * time.Second},
}

// pickWeighted draws an entry by cumulative weight: sum all weights, draw
// uniformly in [0, total), walk subtracting until the draw goes negative.
func pickWeighted(draw int, entries []catchTableEntry) catchTableEntry {
	for _, entry := range entries {
		draw -= entry.Weight
		if draw < 0 {
			return entry
		}
	}
	return entries[len(entries)-1]
}

func totalWeight(entries []catchTableEntry) int {
	total := 0
	for _, entry := range entries {
		total += entry.Weight
	}
	return total
}

func boostTier(tier string, steps int) string {
	index := 0
	for i, candidate := range catchTiers {
		if candidate == tier {
			index = i
			break
		}
	}
	index += steps
	if index >= len(catchTiers) {
		index = len(catchTiers) - 1
	}
	return catchTiers[index]
}

// rollCatch draws from the common or rare table, then layers modifiers in
// fixed order: tide multiply, event multiply, event flat-add. Every
// intermediate amount is floored and clamped non-negative.
func (s *Server) rollCatch() *CatchRoll {
	table := commonCatches
	rarity := rarityCommon
	if s.chance(s.cfg.RareCatchChance) {
		table = rareCatches
		rarity = rarityRare
	}
	entry := pickWeighted(s.rng.Intn(totalWeight(table)), table)
	base := s.randRange(entry.Min, entry.Max)
	roll := &CatchRoll{
		ID:       entry.ID,
		Name:     entry.Name,
		Tier:     entry.Tier,
		Rarity:   rarity,
		Base:     base,
		ImageRef: entry.ImageRef,
	}

	amount := base
	if s.chance(s.cfg.TideChance) {
		tide := tideShifts[s.rng.Intn(len(tideShifts))]
		shifted := normalizeGold(float64(amount) * tide.Multiplier)
		roll.Tide = &TideShift{
			Name:       tide.Name,
			Multiplier: tide.Multiplier,
			Bonus:      shifted - amount,
		}
		amount = shifted
	}
	if s.chance(s.cfg.CatchEventChance) {
		event := catchEvents[s.rng.Intn(len(catchEvents))]
		multiplied := normalizeGold(float64(amount) * event.Multiplier)
		flat := s.randRange(event.FlatMin, event.FlatMax)
		steps := s.rng.Intn(event.MaxTierBoost + 1)
		roll.Tier = boostTier(roll.Tier, steps)
		roll.Event = &CatchEvent{
			Name:       event.Name,
			Multiplier: event.Multiplier,
			FlatBonus:  flat,
			TierBoost:  steps,
			Bonus:      multiplied + flat - amount,
		}
		amount = multiplied + flat
	}
	roll.Final = normalizeGold(float64(amount))
	return roll
}

func ensureFishing(player *Player) *FishingState {
	if player.Fishing == nil {
		player.Fishing = &FishingState{Phase: fishPhaseCast}
	}
	return player.Fishing
}

// syncFishing applies the lazy waiting-to-pull advance; the bite deadline
// is only observed when someone reads or acts on the state.
func syncFishing(state *FishingState, now time.Time) {
	if state.Phase == fishPhaseWaiting && !now.Before(state.WaitUntil) {
		state.Phase = fishPhasePull
	}
}

func (s *Server) biteDelay() time.Duration {
	return time.Duration(s.randRange(s.cfg.BiteDelayMinMs, s.cfg.BiteDelayMaxMs)) * time.Millisecond
}

// fishingCast rolls a catch up front and starts the bite wait.
func (s *Server) fishingCast(game *Game, player *Player, now time.Time) (*FishingState, error) {
	if game.State != stateLive {
		return nil, errInvalidState("game is not live")
	}
	state := ensureFishing(player)
	syncFishing(state, now)
	if state.Phase != fishPhaseCast {
		return nil, errConflict("cast is only allowed in the %q phase, currently %q", fishPhaseCast, state.Phase)
	}
	state.PendingCatch = s.rollCatch()
	state.LastResult = nil
	state.WaitUntil = now.Add(s.biteDelay())
	state.Phase = fishPhaseWaiting
	return state, nil
}

// fishingPull hooks the bite; the answer dispatcher takes it from here.
func (s *Server) fishingPull(game *Game, player *Player, now time.Time) (*FishingState, error) {
	if game.State != stateLive {
		return nil, errInvalidState("game is not live")
	}
	state := ensureFishing(player)
	syncFishing(state, now)
	if state.Phase != fishPhasePull {
		return nil, errConflict("pull is only allowed in the %q phase, currently %q", fishPhasePull, state.Phase)
	}
	state.Phase = fishPhaseQuestion
	return state, nil
}

// fishingNext acknowledges a result and returns to the cast phase.
func (s *Server) fishingNext(game *Game, player *Player, now time.Time) (*FishingState, error) {
	if game.State != stateLive {
		return nil, errInvalidState("game is not live")
	}
	state := ensureFishing(player)
	syncFishing(state, now)
	if state.Phase != fishPhaseResult {
		return nil, errConflict("next is only allowed in the %q phase, currently %q", fishPhaseResult, state.Phase)
	}
	state.PendingCatch = nil
	state.LastResult = nil
	state.Phase = fishPhaseCast
	return state, nil
}

// maybeBrewPotion installs a shared world effect for the whole game.
func (s *Server) maybeBrewPotion(game *Game, now time.Time) {
	if !s.chance(s.cfg.PotionChance) {
		return
	}
	brew := potionBrews[s.rng.Intn(len(potionBrews))]
	game.World = &WorldEffect{
		Label:     brew.Label,
		Style:     brew.Style,
		StartedAt: now,
		Until:     now.Add(brew.Duration),
	}
	appendEvent(game, "potion", fmt.Sprintf("a %s potion washed over the waters", brew.Label), now)
}

// activeWorldEffect returns the shared effect only while it lasts. Pure
// read; the expired effect is cleared by syncWorld on the next store
// access.
func activeWorldEffect(game *Game, now time.Time) *WorldEffect {
	if game.World == nil || !now.Before(game.World.Until) {
		return nil
	}
	return game.World
}

// syncWorld drops an expired potion effect. Lazy, like the game clock.
func syncWorld(game *Game, now time.Time) {
	if game.World != nil && !now.Before(game.World.Until) {
		game.World = nil
	}
}
