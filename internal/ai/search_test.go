package ai

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWith(a, b []int) entity.Board {
	board := entity.EmptyBoard()
	for _, index := range a {
		board = board.With(index, entity.SymbolA)
	}
	for _, index := range b {
		board = board.With(index, entity.SymbolB)
	}

	return board
}

func row(r int, cols ...int) []int {
	cells := make([]int, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, entity.Index(r, c))
	}

	return cells
}

func TestSearcher_FullBoard(t *testing.T) {
	board := entity.EmptyBoard()
	for i := range board {
		board[i] = entity.SymbolA
	}

	searcher := New(rand.New(rand.NewSource(1)))

	for _, tier := range []Tier{TierRandom, TierHeuristic, TierSearch} {
		_, ok := searcher.BestMove(board, entity.SymbolB, entity.SymbolA, tier)
		assert.False(t, ok, "tier %d", tier)
	}
}

func TestSearcher_Random(t *testing.T) {
	// Given: a board with a single empty cell
	board := entity.EmptyBoard()
	for i := range board {
		board[i] = entity.SymbolA
	}
	board[77] = entity.SymbolEmpty

	searcher := New(rand.New(rand.NewSource(1)))

	// When: the random tier picks a move
	move, ok := searcher.BestMove(board, entity.SymbolB, entity.SymbolA, TierRandom)

	// Then: it must be the empty cell
	require.True(t, ok)
	assert.Equal(t, 77, move)

	for i := 0; i < 50; i++ {
		move, ok = searcher.BestMove(entity.EmptyBoard().With(0, entity.SymbolA), entity.SymbolB, entity.SymbolA, TierRandom)
		require.True(t, ok)
		assert.NotEqual(t, 0, move)
	}
}

func TestSearcher_Heuristic(t *testing.T) {
	searcher := New(rand.New(rand.NewSource(1)))

	t.Run("Takes the immediate win", func(t *testing.T) {
		// Given: B has four on row 2 and A threatens on row 10
		board := boardWith(row(10, 1, 2, 3, 4), row(2, 5, 6, 7, 8))

		// When: B moves
		move, ok := searcher.BestMove(board, entity.SymbolB, entity.SymbolA, TierHeuristic)

		// Then: B completes its own five
		require.True(t, ok)
		assert.True(t, board.WouldWin(move, entity.SymbolB))
	})

	t.Run("Blocks the opponent's win", func(t *testing.T) {
		// Given: A has four on row 10 closed on the left
		board := boardWith(row(10, 1, 2, 3, 4), row(10, 0))

		// When: B moves
		move, ok := searcher.BestMove(board, entity.SymbolB, entity.SymbolA, TierHeuristic)

		// Then: B plays the only blocking cell
		require.True(t, ok)
		assert.Equal(t, entity.Index(10, 5), move)
	})

	t.Run("Prefers the center and breaks ties by lowest index", func(t *testing.T) {
		move, ok := searcher.BestMove(entity.EmptyBoard(), entity.SymbolB, entity.SymbolA, TierHeuristic)
		require.True(t, ok)
		assert.Equal(t, entity.CenterCell, move)

		board := entity.EmptyBoard().With(entity.CenterCell, entity.SymbolA)
		move, ok = searcher.BestMove(board, entity.SymbolB, entity.SymbolA, TierHeuristic)
		require.True(t, ok)
		assert.Equal(t, entity.Index(6, 7), move)
	})
}

func TestSearcher_Search(t *testing.T) {
	searcher := New(rand.New(rand.NewSource(1)))

	t.Run("Completes an open four", func(t *testing.T) {
		// Given: B has an open four on row 7 and A has scattered stones
		board := boardWith([]int{entity.Index(3, 3), entity.Index(4, 4), entity.Index(11, 2)}, row(7, 5, 6, 7, 8))

		// When: B searches
		move, ok := searcher.BestMove(board, entity.SymbolB, entity.SymbolA, TierSearch)

		// Then: B plays a cell that wins at once
		require.True(t, ok)
		assert.True(t, board.WouldWin(move, entity.SymbolB))
		assert.Contains(t, []int{entity.Index(7, 4), entity.Index(7, 9)}, move)
	})

	t.Run("Blocks a closed four", func(t *testing.T) {
		// Given: A has four on row 3 capped by B on the left
		board := boardWith(row(3, 3, 4, 5, 6), row(3, 2))

		// When: B searches
		move, ok := searcher.BestMove(board, entity.SymbolB, entity.SymbolA, TierSearch)

		// Then: B closes the open end
		require.True(t, ok)
		assert.Equal(t, entity.Index(3, 7), move)
	})

	t.Run("Opens in the center", func(t *testing.T) {
		move, ok := searcher.BestMove(entity.EmptyBoard(), entity.SymbolA, entity.SymbolB, TierSearch)

		require.True(t, ok)
		assert.Equal(t, entity.CenterCell, move)
	})

	t.Run("Always returns an empty cell", func(t *testing.T) {
		board := boardWith(row(7, 7, 9), row(7, 8, 6))

		move, ok := searcher.BestMove(board, entity.SymbolB, entity.SymbolA, TierSearch)

		require.True(t, ok)
		assert.True(t, board.IsEmpty(move))
	})
}

func TestEvaluation(t *testing.T) {
	t.Run("Terminal boards are zero-sum", func(t *testing.T) {
		board := boardWith(row(0, 0, 1, 2, 3, 4), nil)

		assert.Equal(t, winScore, evaluateBoard(board, entity.SymbolA, entity.SymbolB))
		assert.Equal(t, lossScore, evaluateBoard(board, entity.SymbolB, entity.SymbolA))
	})

	t.Run("Open runs are worth more than capped runs", func(t *testing.T) {
		assert.Greater(t, runValue(4, 0), runValue(4, 1))
		assert.Greater(t, runValue(4, 1), runValue(3, 0))
		assert.Greater(t, runValue(3, 0), runValue(3, 1))
		assert.Greater(t, runValue(3, 1), runValue(2, 0))
		assert.Greater(t, runValue(2, 0), runValue(2, 1))
		assert.Zero(t, runValue(4, 2))
	})

	t.Run("Board edge caps a run", func(t *testing.T) {
		board := boardWith(row(0, 0, 1, 2), nil)

		count, blocked := runFrom(board, 0, 2, 0, -1, entity.SymbolA, entity.SymbolB)
		assert.Equal(t, 2, count)
		assert.True(t, blocked)

		count, blocked = runFrom(board, 0, 2, 0, 1, entity.SymbolA, entity.SymbolB)
		assert.Zero(t, count)
		assert.False(t, blocked)
	})

	t.Run("Run against the edge scores below the same run in the open", func(t *testing.T) {
		edge := boardWith(row(7, 0, 1, 2, 3), nil)
		middle := boardWith(row(7, 4, 5, 6, 7), nil)

		edgeScore := evaluateBoard(edge, entity.SymbolA, entity.SymbolB)
		middleScore := evaluateBoard(middle, entity.SymbolA, entity.SymbolB)

		assert.Less(t, edgeScore, middleScore)
	})

	t.Run("Positional score favours win over block over shape", func(t *testing.T) {
		board := boardWith(row(7, 3, 4, 5, 6), row(9, 3, 4, 5, 6))

		assert.Equal(t, placeWin, positionalScore(board, entity.Index(7, 7), entity.SymbolA, entity.SymbolB))
		assert.Equal(t, placeBlock, positionalScore(board, entity.Index(9, 7), entity.SymbolA, entity.SymbolB))
		assert.Less(t, positionalScore(board, entity.Index(0, 14), entity.SymbolA, entity.SymbolB), placeBlock)
	})
}

// exhaustiveMove - root search without a pruning bound.
func exhaustiveMove(board entity.Board, me, opponent entity.Symbol) int {
	for _, index := range board.EmptyCells() {
		if board.WouldWin(index, me) {
			return index
		}
	}

	candidates := candidateCells(board)
	best, bestScore := candidates[0], math.MinInt
	for _, index := range candidates {
		score := minimax(board.With(index, me), searchDepth-1, false, me, opponent, math.MinInt, math.MaxInt)
		score += positionalScore(board, index, me, opponent)

		if score > bestScore {
			best, bestScore = index, score
		}
	}

	return best
}

func TestSearcher_PruningKeepsTheChoice(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	searcher := New(rand.New(rand.NewSource(1)))

	for game := 0; game < 8; game++ {
		// Given: a board of random stones around the center without a finished line
		board := entity.EmptyBoard()
		for placed := 0; placed < 12; {
			index := entity.Index(4+rng.Intn(7), 4+rng.Intn(7))
			symbol := entity.SymbolA
			if placed%2 == 1 {
				symbol = entity.SymbolB
			}
			if !board.IsEmpty(index) || board.WouldWin(index, symbol) {
				continue
			}
			board = board.With(index, symbol)
			placed++
		}

		// When: searching with and without pruning
		pruned := searcher.searchMove(board, board.EmptyCells(), entity.SymbolA, entity.SymbolB)
		full := exhaustiveMove(board, entity.SymbolA, entity.SymbolB)

		// Then: both pick the same cell
		assert.Equal(t, full, pruned)
	}
}
