package skill

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	DefaultFreezeTurns  = 2
	DefaultShieldLayers = 1
	DefaultHealAmount   = 20
)

func builtinEffects() map[entity.EffectKind]effect {
	return map[entity.EffectKind]effect{
		entity.EffectBoardReset:  {validate: requireParticipant, mutate: boardReset},
		entity.EffectExtraTurn:   {validate: requireTurn, mutate: extraTurn},
		entity.EffectRemovePiece: {validate: requireOccupiedTarget, mutate: removePiece},
		entity.EffectSwapPieces:  {validate: validateSwap, mutate: swapPieces},
		entity.EffectForceMove:   {validate: validateRelocation, mutate: relocation(entity.EffectForceMove)},
		entity.EffectTeleport:    {validate: validateRelocation, mutate: relocation(entity.EffectTeleport)},
		entity.EffectFreeze:      {validate: validateFreeze, mutate: freeze},
		entity.EffectShield:      {validate: noPrecondition, mutate: shield},
		entity.EffectHeal:        {validate: validateHeal, mutate: heal},
	}
}

func requireParticipant(state entity.MatchState, req entity.SkillRequest) error {
	if !state.IsParticipant(req.ParticipantID) {
		return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, req.ParticipantID)
	}

	return nil
}

func noPrecondition(entity.MatchState, entity.SkillRequest) error {
	return nil
}

func boardReset(state *entity.MatchState, req entity.SkillRequest) string {
	state.Board = entity.EmptyBoard()
	state.Turn = entity.SeatA

	return fmt.Sprintf("player %s used %s, the board was cleared", req.ParticipantID, entity.EffectBoardReset)
}

func requireTurn(state entity.MatchState, req entity.SkillRequest) error {
	seat, ok := state.SeatOf(req.ParticipantID)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, req.ParticipantID)
	}

	if state.Turn != seat {
		return fmt.Errorf("%w: caller is not owed the turn", apperror.ErrIllegalSkillUse)
	}

	return nil
}

func extraTurn(_ *entity.MatchState, req entity.SkillRequest) string {
	return fmt.Sprintf("player %s used %s and keeps the turn", req.ParticipantID, entity.EffectExtraTurn)
}

func requireOccupiedTarget(state entity.MatchState, req entity.SkillRequest) error {
	target, err := targetCell(req)
	if err != nil {
		return err
	}

	if !state.Board.At(target).IsPiece() {
		return fmt.Errorf("%w: cell %d is empty", apperror.ErrIllegalSkillUse, target)
	}

	return nil
}

func removePiece(state *entity.MatchState, req entity.SkillRequest) string {
	target := *req.Target
	state.Board = state.Board.With(target, entity.SymbolEmpty)

	return fmt.Sprintf("player %s used %s on cell %d", req.ParticipantID, entity.EffectRemovePiece, target)
}

func validateSwap(state entity.MatchState, req entity.SkillRequest) error {
	first, second, err := cellPair(req)
	if err != nil {
		return err
	}

	if !state.Board.At(first).IsPiece() || !state.Board.At(second).IsPiece() {
		return fmt.Errorf("%w: both cells must hold a piece", apperror.ErrIllegalSkillUse)
	}

	return nil
}

func swapPieces(state *entity.MatchState, req entity.SkillRequest) string {
	first, second, _ := cellPair(req)
	a, b := state.Board.At(first), state.Board.At(second)
	state.Board = state.Board.With(first, b).With(second, a)

	return fmt.Sprintf("player %s used %s on cells %d and %d", req.ParticipantID, entity.EffectSwapPieces, first, second)
}

func validateRelocation(state entity.MatchState, req entity.SkillRequest) error {
	source, destination, err := cellPair(req)
	if err != nil {
		return err
	}

	if !state.Board.At(source).IsPiece() {
		return fmt.Errorf("%w: source cell %d is empty", apperror.ErrIllegalSkillUse, source)
	}

	if state.Board.At(destination) != entity.SymbolEmpty {
		return fmt.Errorf("%w: destination cell %d is occupied", apperror.ErrIllegalSkillUse, destination)
	}

	return nil
}

// relocation - FORCE_MOVE and TELEPORT share mechanics but stay distinct kinds.
func relocation(kind entity.EffectKind) func(state *entity.MatchState, req entity.SkillRequest) string {
	return func(state *entity.MatchState, req entity.SkillRequest) string {
		source, destination, _ := cellPair(req)
		piece := state.Board.At(source)
		state.Board = state.Board.With(source, entity.SymbolEmpty).With(destination, piece)

		return fmt.Sprintf("player %s used %s from cell %d to cell %d", req.ParticipantID, kind, source, destination)
	}
}

func validateFreeze(state entity.MatchState, req entity.SkillRequest) error {
	seat, ok := state.SeatOf(req.ParticipantID)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, req.ParticipantID)
	}

	target, err := targetCell(req)
	if err != nil {
		return err
	}

	if state.Board.At(target) != seat.Other().Symbol() {
		return fmt.Errorf("%w: only an opponent piece can be frozen", apperror.ErrIllegalSkillUse)
	}

	if state.Auxiliary.IsFrozen(target) {
		return fmt.Errorf("%w: cell %d is already frozen", apperror.ErrIllegalSkillUse, target)
	}

	return nil
}

func freeze(state *entity.MatchState, req entity.SkillRequest) string {
	target := *req.Target
	turns := positiveParam(req.Params, DefaultFreezeTurns)
	state.Auxiliary.Freeze(target, turns)

	return fmt.Sprintf("player %s used %s on cell %d for %d turns", req.ParticipantID, entity.EffectFreeze, target, turns)
}

func shield(state *entity.MatchState, req entity.SkillRequest) string {
	layers := positiveParam(req.Params, DefaultShieldLayers)
	state.Auxiliary.Shields += layers

	return fmt.Sprintf("player %s used %s and gained %d layers, %d in total",
		req.ParticipantID, entity.EffectShield, layers, state.Auxiliary.Shields)
}

func validateHeal(state entity.MatchState, req entity.SkillRequest) error {
	if err := requireParticipant(state, req); err != nil {
		return err
	}

	if state.Auxiliary.HealthTracked() && state.Auxiliary.Health >= state.Auxiliary.MaxHealth {
		return fmt.Errorf("%w: health is already full", apperror.ErrIllegalSkillUse)
	}

	return nil
}

func heal(state *entity.MatchState, req entity.SkillRequest) string {
	amount := positiveParam(req.Params, DefaultHealAmount)
	state.Auxiliary.TrackHealth()
	before := state.Auxiliary.Health
	state.Auxiliary.Health = min(before+amount, state.Auxiliary.MaxHealth)

	return fmt.Sprintf("player %s used %s and restored %d health, now %d/%d",
		req.ParticipantID, entity.EffectHeal, state.Auxiliary.Health-before, state.Auxiliary.Health, state.Auxiliary.MaxHealth)
}

func targetCell(req entity.SkillRequest) (int, error) {
	if req.Target == nil {
		return 0, fmt.Errorf("%w: target cell is required", apperror.ErrInvalidParams)
	}

	if !entity.ValidIndex(*req.Target) {
		return 0, fmt.Errorf("%w: target cell %d", apperror.ErrOutOfRange, *req.Target)
	}

	return *req.Target, nil
}

// cellPair - target cell plus the second cell carried in params.
func cellPair(req entity.SkillRequest) (int, int, error) {
	first, err := targetCell(req)
	if err != nil {
		return 0, 0, err
	}

	second, err := strconv.Atoi(strings.TrimSpace(req.Params))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: second cell must be a number", apperror.ErrInvalidParams)
	}

	if !entity.ValidIndex(second) {
		return 0, 0, fmt.Errorf("%w: second cell %d", apperror.ErrOutOfRange, second)
	}

	if first == second {
		return 0, 0, fmt.Errorf("%w: cells must be distinct", apperror.ErrInvalidParams)
	}

	return first, second, nil
}

// positiveParam - numeric param, or fallback when it is missing, malformed or not positive.
func positiveParam(params string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(params))
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}
