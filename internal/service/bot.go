package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gomoku-backend/internal/ai"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var (
	ErrNotBotTurn       = errors.New("the seat owed the turn is not held by the bot")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrBotFailure       = errors.New("bot failed to choose a move")
)

type searcher interface {
	BestMove(board entity.Board, me, opponent entity.Symbol, tier ai.Tier) (int, bool)
}

type BotService interface {
	NextMove(state entity.MatchState) (int, error)
}

type botService struct {
	logger      *slog.Logger
	searcher    searcher
	defaultTier ai.Tier
}

func NewBotService(logger *slog.Logger, searcher searcher, defaultTier int) BotService {
	tier := ai.Tier(defaultTier)
	if !tier.Valid() {
		tier = ai.TierHeuristic
	}

	return &botService{
		logger:      logger,
		searcher:    searcher,
		defaultTier: tier,
	}
}

// NextMove - cell the bot plays in state. A panic inside the search is turned
// into ErrBotFailure so the caller can skip the turn.
func (that *botService) NextMove(state entity.MatchState) (cell int, err error) {
	log := that.logger.With("method", "NextMove", "matchID", state.ID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("bot search panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrBotFailure, r)
		}
	}()

	occupant := state.Occupant(state.Turn)
	if occupant == nil || !occupant.AI {
		return 0, ErrNotBotTurn
	}

	tier := ai.Tier(occupant.Tier)
	if !tier.Valid() {
		tier = that.defaultTier
	}

	me := state.Turn.Symbol()

	cell, ok := that.searcher.BestMove(state.Board, me, me.Opponent(), tier)
	if !ok {
		return 0, ErrNoAvailableMoves
	}

	if state.Auxiliary.IsFrozen(cell) {
		log.Debug("bot picked a frozen cell, falling back", "cell", cell)

		for _, candidate := range state.Board.EmptyCells() {
			if !state.Auxiliary.IsFrozen(candidate) {
				return candidate, nil
			}
		}

		return 0, ErrNoAvailableMoves
	}

	return cell, nil
}
