package server

import "time"

const (
	puzzleRows = 4
	puzzleCols = 5
)

// newPuzzleState picks a target image from the question set and fixes the
// reveal permutation for the life of the game.
func (s *Server) newPuzzleState(set QuestionSet) *PuzzleState {
	total := puzzleRows * puzzleCols
	imageRef := ""
	withImages := make([]int, 0, len(set.Questions))
	for i, question := range set.Questions {
		if question.ImageRef != "" {
			withImages = append(withImages, i)
		}
	}
	if len(withImages) > 0 {
		imageRef = set.Questions[withImages[s.rng.Intn(len(withImages))]].ImageRef
	}
	return &PuzzleState{
		Rows:         puzzleRows,
		Cols:         puzzleCols,
		TotalTiles:   total,
		Order:        s.rng.Perm(total),
		LastRevealed: -1,
		ImageRef:     imageRef,
	}
}

func (p *PuzzleState) isRevealed(tile int) bool {
	for _, revealed := range p.Revealed {
		if revealed == tile {
			return true
		}
	}
	return false
}

func (p *PuzzleState) completed() bool {
	return len(p.Revealed) >= p.TotalTiles
}

// revealNextTile reveals the first tile in the fixed permutation that has
// not been revealed yet. Shared across every player in the game; calling
// it on a finished puzzle reports completion without revealing anything.
func revealNextTile(game *Game, now time.Time) RevealResult {
	puzzle := game.Puzzle
	if puzzle == nil {
		return RevealResult{TileIndex: -1}
	}
	for _, tile := range puzzle.Order {
		if puzzle.isRevealed(tile) {
			continue
		}
		puzzle.Revealed = append(puzzle.Revealed, tile)
		puzzle.LastRevealed = tile
		if puzzle.completed() && puzzle.CompletedAt.IsZero() {
			puzzle.CompletedAt = now
			appendEvent(game, "puzzle", "the puzzle is complete", now)
		}
		return RevealResult{
			TileIndex:  tile,
			Revealed:   len(puzzle.Revealed),
			TotalTiles: puzzle.TotalTiles,
			Completed:  puzzle.completed(),
		}
	}
	return RevealResult{
		TileIndex:  -1,
		Revealed:   len(puzzle.Revealed),
		TotalTiles: puzzle.TotalTiles,
		Completed:  true,
	}
}
