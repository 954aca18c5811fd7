package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	BoardSize  = 15
	BoardCells = BoardSize * BoardSize
	WinLength  = 5
	CenterCell = (BoardSize/2)*BoardSize + BoardSize/2
)

// Symbol - content of a single cell. The byte values double as the wire encoding.
type Symbol byte

const (
	SymbolEmpty Symbol = '0'
	SymbolA     Symbol = '1'
	SymbolB     Symbol = '2'
)

// Direction - a step on the board, in columns and rows.
type Direction struct {
	DCol int
	DRow int
}

// Directions - the four line directions: →, ↓, ↘, ↙.
var Directions = [4]Direction{
	{DCol: 1, DRow: 0},
	{DCol: 0, DRow: 1},
	{DCol: 1, DRow: 1},
	{DCol: -1, DRow: 1},
}

func (that Symbol) Opponent() Symbol {
	switch that {
	case SymbolA:
		return SymbolB
	case SymbolB:
		return SymbolA
	default:
		return SymbolEmpty
	}
}

func (that Symbol) IsPiece() bool {
	return that == SymbolA || that == SymbolB
}

// Board - 15x15 grid. It is an array, so assignment copies it.
type Board [BoardCells]Symbol

func EmptyBoard() Board {
	var board Board
	for i := range board {
		board[i] = SymbolEmpty
	}

	return board
}

// DecodeBoard - parses the 225-character encoding produced by Encode.
func DecodeBoard(encoded string) (Board, error) {
	var board Board

	if len(encoded) != BoardCells {
		return board, fmt.Errorf("%w: board must have %d cells, got %d", apperror.ErrValidation, BoardCells, len(encoded))
	}

	for i := 0; i < BoardCells; i++ {
		symbol := Symbol(encoded[i])
		if symbol != SymbolEmpty && !symbol.IsPiece() {
			return board, fmt.Errorf("%w: unknown symbol %q at cell %d", apperror.ErrValidation, encoded[i], i)
		}
		board[i] = symbol
	}

	return board, nil
}

func Index(row, col int) int {
	return row*BoardSize + col
}

func RowCol(index int) (int, int) {
	return index / BoardSize, index % BoardSize
}

func InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < BoardSize && col < BoardSize
}

func ValidIndex(index int) bool {
	return index >= 0 && index < BoardCells
}

func (that Board) Encode() string {
	buf := make([]byte, BoardCells)
	for i, symbol := range that {
		buf[i] = byte(symbol)
	}

	return string(buf)
}

// At - returns the symbol at index, or SymbolEmpty when the index is out of range.
func (that Board) At(index int) Symbol {
	if !ValidIndex(index) {
		return SymbolEmpty
	}

	return that[index]
}

func (that Board) IsEmpty(index int) bool {
	return ValidIndex(index) && that[index] == SymbolEmpty
}

// Place - returns a copy of the board with symbol placed on an empty cell.
func (that Board) Place(index int, symbol Symbol) (Board, error) {
	if !ValidIndex(index) {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrOutOfRange, index)
	}

	if that[index] != SymbolEmpty {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, index)
	}

	that[index] = symbol

	return that, nil
}

// With - returns a copy of the board with the cell overwritten. The index must be valid.
func (that Board) With(index int, symbol Symbol) Board {
	that[index] = symbol
	return that
}

func (that Board) IsFull() bool {
	for _, symbol := range that {
		if symbol == SymbolEmpty {
			return false
		}
	}

	return true
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardCells)
	for i, symbol := range that {
		if symbol == SymbolEmpty {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) StoneCount() int {
	count := 0
	for _, symbol := range that {
		if symbol.IsPiece() {
			count++
		}
	}

	return count
}

// Count - number of cells holding symbol.
func (that Board) Count(symbol Symbol) int {
	count := 0
	for _, cell := range that {
		if cell == symbol {
			count++
		}
	}

	return count
}

// HasFiveInRow - reports whether symbol owns a run of at least five cells in any direction.
func (that Board) HasFiveInRow(symbol Symbol) bool {
	if !symbol.IsPiece() {
		return false
	}

	for index, cell := range that {
		if cell != symbol {
			continue
		}

		row, col := RowCol(index)
		for _, dir := range Directions {
			count := 1 + that.CountDirection(row, col, dir.DRow, dir.DCol, symbol) +
				that.CountDirection(row, col, -dir.DRow, -dir.DCol, symbol)
			if count >= WinLength {
				return true
			}
		}
	}

	return false
}

// CountDirection - number of consecutive cells holding symbol, starting next to (row, col).
func (that Board) CountDirection(row, col, dRow, dCol int, symbol Symbol) int {
	count := 0
	r, c := row+dRow, col+dCol
	for InBounds(r, c) && that[Index(r, c)] == symbol {
		count++
		r += dRow
		c += dCol
	}

	return count
}

// WouldWin - reports whether placing symbol at an empty index completes five in a row.
func (that Board) WouldWin(index int, symbol Symbol) bool {
	if !that.IsEmpty(index) {
		return false
	}

	row, col := RowCol(index)
	for _, dir := range Directions {
		count := 1 + that.CountDirection(row, col, dir.DRow, dir.DCol, symbol) +
			that.CountDirection(row, col, -dir.DRow, -dir.DCol, symbol)
		if count >= WinLength {
			return true
		}
	}

	return false
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Encode())
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	board, err := DecodeBoard(encoded)
	if err != nil {
		return err
	}

	*that = board

	return nil
}
