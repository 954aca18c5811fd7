package ai

import (
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	winScore   = 10000
	lossScore  = -winScore
	placeWin   = 1000
	placeBlock = 900
	lookAhead  = entity.WinLength - 1
)

// patternScore - value of the lines through index for symbol, assuming symbol sits on index.
// Each direction counts up to four stones both ways.
func patternScore(board entity.Board, index int, symbol entity.Symbol) int {
	row, col := entity.RowCol(index)
	score := 0

	for _, dir := range entity.Directions {
		count := 1 + countUpTo(board, row, col, dir.DRow, dir.DCol, symbol, lookAhead) +
			countUpTo(board, row, col, -dir.DRow, -dir.DCol, symbol, lookAhead)

		switch {
		case count >= entity.WinLength:
			score += 10000
		case count == 4:
			score += 1000
		case count == 3:
			score += 100
		case count == 2:
			score += 10
		}
	}

	return score
}

func countUpTo(board entity.Board, row, col, dRow, dCol int, symbol entity.Symbol, limit int) int {
	count := 0
	for step := 1; step <= limit; step++ {
		r, c := row+dRow*step, col+dCol*step
		if !entity.InBounds(r, c) || board.At(entity.Index(r, c)) != symbol {
			break
		}
		count++
	}

	return count
}

func centerDistance(index int) int {
	row, col := entity.RowCol(index)
	center := entity.BoardSize / 2

	return abs(row-center) + abs(col-center)
}

// positionalScore - static value of playing index: an immediate win or block
// dominates, otherwise own patterns weigh double the opponent's plus a center bonus.
func positionalScore(board entity.Board, index int, me, opponent entity.Symbol) int {
	if board.WouldWin(index, me) {
		return placeWin
	}

	if board.WouldWin(index, opponent) {
		return placeBlock
	}

	mine := board.With(index, me)
	theirs := board.With(index, opponent)

	score := patternScore(mine, index, me) * 2
	score += patternScore(theirs, index, opponent)
	score += entity.BoardSize - centerDistance(index)

	return score
}

// evaluateBoard - zero-sum static evaluation from me's point of view.
func evaluateBoard(board entity.Board, me, opponent entity.Symbol) int {
	if board.HasFiveInRow(me) {
		return winScore
	}

	if board.HasFiveInRow(opponent) {
		return lossScore
	}

	score := 0
	for index, symbol := range board {
		switch symbol {
		case me:
			score += stoneScore(board, index, me, opponent)
		case opponent:
			score -= stoneScore(board, index, opponent, me)
		}
	}

	return score
}

// stoneScore - value of one stone: center box bonus plus run shape per direction.
// An open run has neither an opponent stone nor the board edge at either end.
func stoneScore(board entity.Board, index int, player, opponent entity.Symbol) int {
	row, col := entity.RowCol(index)
	score := 0

	if row >= 5 && row < 10 && col >= 5 && col < 10 {
		score += 10
	}

	for _, dir := range entity.Directions {
		forward, forwardBlocked := runFrom(board, row, col, dir.DRow, dir.DCol, player, opponent)
		backward, backwardBlocked := runFrom(board, row, col, -dir.DRow, -dir.DCol, player, opponent)

		count := 1 + forward + backward
		blocks := 0
		if forwardBlocked {
			blocks++
		}
		if backwardBlocked {
			blocks++
		}

		score += runValue(count, blocks)
	}

	return score
}

func runFrom(board entity.Board, row, col, dRow, dCol int, player, opponent entity.Symbol) (int, bool) {
	count := 0
	r, c := row+dRow, col+dCol
	for entity.InBounds(r, c) {
		switch board.At(entity.Index(r, c)) {
		case player:
			count++
		case opponent:
			return count, true
		default:
			return count, false
		}
		r += dRow
		c += dCol
	}

	return count, true
}

func runValue(count, blocks int) int {
	if count >= entity.WinLength {
		return 10000
	}

	switch {
	case count == 4 && blocks == 0:
		return 1000
	case count == 4 && blocks == 1:
		return 100
	case count == 3 && blocks == 0:
		return 50
	case count == 3 && blocks == 1:
		return 10
	case count == 2 && blocks == 0:
		return 5
	case count == 2 && blocks == 1:
		return 2
	default:
		return 0
	}
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
