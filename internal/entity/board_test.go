package entity

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Places symbol on empty cell without mutating the original", func(t *testing.T) {
		// Given: an empty board
		board := EmptyBoard()

		// When: placing A in the center
		next, err := board.Place(CenterCell, SymbolA)

		// Then: only the returned board holds the piece
		require.NoError(t, err)
		assert.Equal(t, SymbolA, next.At(CenterCell))
		assert.Equal(t, SymbolEmpty, board.At(CenterCell))
	})

	t.Run("Returns ErrCellOccupied on occupied cell", func(t *testing.T) {
		// Given: a board with a piece in cell 0
		board := EmptyBoard().With(0, SymbolB)

		// When: placing on the same cell
		_, err := board.Place(0, SymbolA)

		// Then: the error is a validation error
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Returns ErrOutOfRange for index outside the board", func(t *testing.T) {
		board := EmptyBoard()

		for _, index := range []int{-1, BoardCells, BoardCells + 10} {
			_, err := board.Place(index, SymbolA)
			require.ErrorIs(t, err, apperror.ErrOutOfRange)
		}
	})
}

func TestBoard_HasFiveInRow(t *testing.T) {
	tests := []struct {
		name  string
		cells []int
		want  bool
	}{
		{name: "horizontal", cells: []int{Index(7, 7), Index(7, 8), Index(7, 9), Index(7, 10), Index(7, 11)}, want: true},
		{name: "vertical", cells: []int{Index(0, 3), Index(1, 3), Index(2, 3), Index(3, 3), Index(4, 3)}, want: true},
		{name: "diagonal down right", cells: []int{Index(10, 10), Index(11, 11), Index(12, 12), Index(13, 13), Index(14, 14)}, want: true},
		{name: "diagonal down left", cells: []int{Index(0, 14), Index(1, 13), Index(2, 12), Index(3, 11), Index(4, 10)}, want: true},
		{name: "six in a row", cells: []int{Index(5, 0), Index(5, 1), Index(5, 2), Index(5, 3), Index(5, 4), Index(5, 5)}, want: true},
		{name: "four only", cells: []int{Index(7, 7), Index(7, 8), Index(7, 9), Index(7, 10)}, want: false},
		{name: "row does not wrap to next line", cells: []int{Index(3, 12), Index(3, 13), Index(3, 14), Index(4, 0), Index(4, 1)}, want: false},
		{name: "broken line", cells: []int{Index(7, 7), Index(7, 8), Index(7, 10), Index(7, 11), Index(7, 12)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a board holding the listed A pieces
			board := EmptyBoard()
			for _, cell := range tt.cells {
				board = board.With(cell, SymbolA)
			}

			// Then: only A is checked and only A can own the run
			assert.Equal(t, tt.want, board.HasFiveInRow(SymbolA))
			assert.False(t, board.HasFiveInRow(SymbolB))
		})
	}
}

func TestBoard_HasFiveInRowMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		// Given: a random board
		board := EmptyBoard()
		for i := range board {
			switch rng.Intn(3) {
			case 1:
				board[i] = SymbolA
			case 2:
				board[i] = SymbolB
			}
		}

		// Then: the scan agrees with a line-by-line oracle
		for _, symbol := range []Symbol{SymbolA, SymbolB} {
			assert.Equal(t, bruteForceFive(board, symbol), board.HasFiveInRow(symbol), "round %d", round)
		}
	}
}

func bruteForceFive(board Board, symbol Symbol) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			for _, dir := range Directions {
				run := 0
				for step := 0; step < WinLength; step++ {
					r, c := row+dir.DRow*step, col+dir.DCol*step
					if !InBounds(r, c) || board[Index(r, c)] != symbol {
						break
					}
					run++
				}
				if run == WinLength {
					return true
				}
			}
		}
	}

	return false
}

func TestBoard_EncodeDecode(t *testing.T) {
	t.Run("Round trip keeps every cell", func(t *testing.T) {
		// Given: a board with both symbols
		board := EmptyBoard().With(0, SymbolA).With(224, SymbolB).With(CenterCell, SymbolA)

		// When: encoding and decoding
		encoded := board.Encode()
		decoded, err := DecodeBoard(encoded)

		// Then: the board is unchanged
		require.NoError(t, err)
		assert.Len(t, encoded, BoardCells)
		assert.Equal(t, board, decoded)
		assert.Equal(t, encoded, decoded.Encode())
	})

	t.Run("Rejects wrong length and unknown symbols", func(t *testing.T) {
		_, err := DecodeBoard("000")
		require.ErrorIs(t, err, apperror.ErrValidation)

		encoded := []byte(EmptyBoard().Encode())
		encoded[17] = 'x'
		_, err = DecodeBoard(string(encoded))
		require.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("JSON uses the string encoding", func(t *testing.T) {
		board := EmptyBoard().With(1, SymbolB)

		data, err := json.Marshal(board)
		require.NoError(t, err)

		var restored Board
		require.NoError(t, json.Unmarshal(data, &restored))
		assert.Equal(t, board, restored)
	})
}

func TestBoard_IsFull(t *testing.T) {
	board := EmptyBoard()
	assert.False(t, board.IsFull())
	assert.Len(t, board.EmptyCells(), BoardCells)

	for i := range board {
		board[i] = SymbolA
	}

	assert.True(t, board.IsFull())
	assert.Empty(t, board.EmptyCells())
}

func TestBoard_Count(t *testing.T) {
	t.Run("Counts cells per symbol", func(t *testing.T) {
		// Given: two A pieces and one B piece
		board := EmptyBoard().With(0, SymbolA).With(1, SymbolA).With(2, SymbolB)

		// Then: every symbol is counted separately
		assert.Equal(t, 2, board.Count(SymbolA))
		assert.Equal(t, 1, board.Count(SymbolB))
		assert.Equal(t, BoardCells-3, board.Count(SymbolEmpty))
		assert.Equal(t, 3, board.StoneCount())
	})
}

func TestBoard_At(t *testing.T) {
	t.Run("Returns empty for index outside the board", func(t *testing.T) {
		// Given: a full row of A pieces
		board := EmptyBoard()
		for col := 0; col < BoardSize; col++ {
			board = board.With(Index(0, col), SymbolA)
		}

		// Then: out of range lookups do not panic
		assert.Equal(t, SymbolEmpty, board.At(-1))
		assert.Equal(t, SymbolEmpty, board.At(BoardCells))
		assert.Equal(t, SymbolA, board.At(0))
	})
}
