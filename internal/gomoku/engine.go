package gomoku

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Effect - transformation of a match state owned by the callee.
type Effect func(state entity.MatchState) (entity.MatchState, error)

// Engine - authoritative state of one match. It is not safe for concurrent use;
// callers serialize access to it.
type Engine struct {
	state entity.MatchState
	now   func() time.Time
}

func NewEngine(id string, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}

	return &Engine{
		state: entity.NewMatchState(id, now()),
		now:   now,
	}
}

// Restore - engine over a previously persisted state.
func Restore(state entity.MatchState, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}

	return &Engine{
		state: state.Clone(),
		now:   now,
	}
}

// State - a copy of the current state.
func (that *Engine) State() entity.MatchState {
	return that.state.Clone()
}

func (that *Engine) Version() int64 {
	return that.state.Version
}

// Join - seats the occupant in the first free seat. A participant that is
// already seated gets its seat back without a state change.
func (that *Engine) Join(occupant entity.Occupant) (entity.Seat, error) {
	if that.state.IsFinished() {
		return "", apperror.ErrMatchAlreadyOver
	}

	if !occupant.AI {
		if seat, ok := that.state.SeatOf(occupant.ParticipantID); ok {
			return seat, nil
		}
	}

	if that.state.IsFull() {
		return "", fmt.Errorf("%w: match %s", apperror.ErrMatchFull, that.state.ID)
	}

	next := that.state.Clone()
	seated := occupant

	var seat entity.Seat
	if next.SeatA == nil {
		next.SeatA = &seated
		seat = entity.SeatA
	} else {
		next.SeatB = &seated
		seat = entity.SeatB
	}

	if next.IsFull() && next.IsWaiting() {
		next.Status = entity.StatusInProgress
		next.StartedAt = that.now()
	}

	that.commit(next)

	return seat, nil
}

// ApplyMove - places the participant's symbol on cell.
func (that *Engine) ApplyMove(participantID string, cell int) error {
	if that.state.IsFinished() {
		return apperror.ErrMatchAlreadyOver
	}

	seat, ok := that.state.SeatOf(participantID)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, participantID)
	}

	return that.applySeatMove(seat, participantID, cell)
}

// ApplyAIMove - places the AI's symbol on cell when the AI seat is owed the turn.
func (that *Engine) ApplyAIMove(cell int) error {
	if that.state.IsFinished() {
		return apperror.ErrMatchAlreadyOver
	}

	occupant := that.state.Occupant(that.state.Turn)
	if occupant == nil || !occupant.AI {
		return apperror.ErrNotParticipantsTurn
	}

	return that.applySeatMove(that.state.Turn, occupant.ParticipantID, cell)
}

func (that *Engine) applySeatMove(seat entity.Seat, participantID string, cell int) error {
	if err := that.state.ConfirmInProgress(); err != nil {
		return err
	}

	if that.state.Turn != seat {
		return apperror.ErrNotParticipantsTurn
	}

	if !entity.ValidIndex(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrOutOfRange, cell)
	}

	if that.state.Auxiliary.IsFrozen(cell) {
		return fmt.Errorf("%w: cell %d is frozen", apperror.ErrInvalidCell, cell)
	}

	symbol := seat.Symbol()

	board, err := that.state.Board.Place(cell, symbol)
	if err != nil {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	now := that.now()
	next := that.state.Clone()
	next.Board = board
	next.Moves = append(next.Moves, entity.MoveRecord{
		Seat:          seat,
		ParticipantID: participantID,
		Cell:          cell,
		At:            now,
	})

	switch {
	case board.HasFiveInRow(symbol):
		next.Status = entity.StatusFinished
		next.Winner = seat.Winner()
		next.EndedAt = now
	case board.IsFull():
		next.Status = entity.StatusFinished
		next.Winner = entity.WinnerDraw
		next.EndedAt = now
	default:
		next.Turn = seat.Other()
		next.Auxiliary.TickFreezes()
	}

	that.commit(next)

	return nil
}

// Forfeit - ends the match in favour of the other seat, or with no winner when
// nobody sits there.
func (that *Engine) Forfeit(participantID string) error {
	if that.state.IsFinished() {
		return apperror.ErrMatchAlreadyOver
	}

	seat, ok := that.state.SeatOf(participantID)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, participantID)
	}

	next := that.state.Clone()
	next.Status = entity.StatusFinished
	next.EndedAt = that.now()
	next.Winner = entity.WinnerNone

	if next.Occupant(seat.Other()) != nil {
		next.Winner = seat.Other().Winner()
	}

	that.commit(next)

	return nil
}

// ApplyEffect - runs effect over a copy of the state and commits the result.
// Nothing changes when effect fails.
func (that *Engine) ApplyEffect(participantID string, effect Effect) error {
	if that.state.IsFinished() {
		return apperror.ErrMatchAlreadyOver
	}

	if !that.state.IsParticipant(participantID) {
		return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, participantID)
	}

	if err := that.state.ConfirmInProgress(); err != nil {
		return err
	}

	next, err := effect(that.state.Clone())
	if err != nil {
		return err
	}

	that.commit(next)

	return nil
}

func (that *Engine) commit(next entity.MatchState) {
	next.Version = that.state.Version + 1
	that.state = next
}
