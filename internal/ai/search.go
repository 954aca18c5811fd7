package ai

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type Tier int

const (
	TierRandom    Tier = 1
	TierHeuristic Tier = 2
	TierSearch    Tier = 3
)

const (
	searchDepth     = 2
	candidateRadius = 2
)

func (that Tier) Valid() bool {
	return that >= TierRandom && that <= TierSearch
}

// Searcher - picks moves for the AI seat. Safe for concurrent use.
type Searcher struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New - searcher drawing randomness from rng, or from a time-seeded source when rng is nil.
func New(rng *rand.Rand) *Searcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game moves
	}

	return &Searcher{rng: rng}
}

// BestMove - cell to play for me, false when the board is full.
func (that *Searcher) BestMove(board entity.Board, me, opponent entity.Symbol, tier Tier) (int, bool) {
	empty := board.EmptyCells()
	if len(empty) == 0 {
		return 0, false
	}

	switch tier {
	case TierHeuristic:
		return that.heuristicMove(board, empty, me, opponent), true
	case TierSearch:
		return that.searchMove(board, empty, me, opponent), true
	default:
		return that.randomCell(empty), true
	}
}

func (that *Searcher) randomCell(cells []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return cells[that.rng.Intn(len(cells))]
}

// heuristicMove - win, else block, else the cell closest to the center.
func (that *Searcher) heuristicMove(board entity.Board, empty []int, me, opponent entity.Symbol) int {
	for _, index := range empty {
		if board.WouldWin(index, me) {
			return index
		}
	}

	for _, index := range empty {
		if board.WouldWin(index, opponent) {
			return index
		}
	}

	best, bestDistance := -1, math.MaxInt
	for _, index := range empty {
		if distance := centerDistance(index); distance < bestDistance {
			best, bestDistance = index, distance
		}
	}

	if best >= 0 {
		return best
	}

	return that.randomCell(empty)
}

// searchMove - an immediate win is played directly; otherwise every candidate is
// scored by its positional value plus a depth-limited alpha-beta search of the reply.
func (that *Searcher) searchMove(board entity.Board, empty []int, me, opponent entity.Symbol) int {
	for _, index := range empty {
		if board.WouldWin(index, me) {
			return index
		}
	}

	candidates := candidateCells(board)
	if len(candidates) == 0 {
		candidates = empty
	}

	best, bestScore := candidates[0], math.MinInt
	for _, index := range candidates {
		positional := positionalScore(board, index, me, opponent)

		// A reply at or below alpha cannot beat the current best, so the reply loop stops there.
		alpha := math.MinInt
		if bestScore != math.MinInt {
			alpha = bestScore - positional
		}

		score := minimax(board.With(index, me), searchDepth-1, false, me, opponent, alpha, math.MaxInt)
		score += positional

		if score > bestScore {
			best, bestScore = index, score
		}
	}

	return best
}

func minimax(board entity.Board, depth int, maximizing bool, me, opponent entity.Symbol, alpha, beta int) int {
	if depth == 0 || board.HasFiveInRow(me) || board.HasFiveInRow(opponent) {
		return evaluateBoard(board, me, opponent)
	}

	moves := candidateCells(board)
	if len(moves) == 0 {
		return 0
	}

	if maximizing {
		value := math.MinInt
		for _, index := range moves {
			value = max(value, minimax(board.With(index, me), depth-1, false, me, opponent, alpha, beta))
			alpha = max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return value
	}

	value := math.MaxInt
	for _, index := range moves {
		value = min(value, minimax(board.With(index, opponent), depth-1, true, me, opponent, alpha, beta))
		beta = min(beta, value)
		if beta <= alpha {
			break
		}
	}

	return value
}

// candidateCells - empty cells within candidateRadius of any stone, in row-major
// order. The center alone on an empty board.
func candidateCells(board entity.Board) []int {
	if board.StoneCount() == 0 {
		if board.IsEmpty(entity.CenterCell) {
			return []int{entity.CenterCell}
		}
		return nil
	}

	var near [entity.BoardCells]bool
	for index, symbol := range board {
		if !symbol.IsPiece() {
			continue
		}

		row, col := entity.RowCol(index)
		for dRow := -candidateRadius; dRow <= candidateRadius; dRow++ {
			for dCol := -candidateRadius; dCol <= candidateRadius; dCol++ {
				if entity.InBounds(row+dRow, col+dCol) {
					near[entity.Index(row+dRow, col+dCol)] = true
				}
			}
		}
	}

	cells := make([]int, 0, 64)
	for index, ok := range near {
		if ok && board.IsEmpty(index) {
			cells = append(cells, index)
		}
	}

	return cells
}
