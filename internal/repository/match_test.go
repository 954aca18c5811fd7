package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/skill"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
)

func newState(t *testing.T) entity.MatchState {
	t.Helper()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	board, err := entity.EmptyBoard().Place(entity.CenterCell, entity.SymbolA)
	require.NoError(t, err)

	state := entity.NewMatchState("m-1", now)
	state.Board = board
	state.Turn = entity.SeatB
	state.Status = entity.StatusInProgress
	state.SeatA = &entity.Occupant{ParticipantID: "alice"}
	state.SeatB = &entity.Occupant{ParticipantID: entity.AIParticipantID, AI: true, Tier: 3}
	state.Auxiliary.Freeze(entity.Index(0, 0), 2)
	state.StartedAt = now
	state.Version = 4

	return state
}

func TestMatchRepository_SaveLoad(t *testing.T) {
	t.Run("Round trips state and cooldowns", func(t *testing.T) {
		ctx, st := suite.New(t)
		repo := NewMatchRepository(st.Storage, time.Hour)

		// Given: A live match with a cooldown
		state := newState(t)
		cooldowns := []skill.CooldownEntry{{
			ParticipantID: "alice",
			MatchID:       state.ID,
			SkillID:       "shield",
			LastUsed:      state.StartedAt,
		}}

		// When: It is saved and loaded
		require.NoError(t, repo.Save(ctx, state, cooldowns))
		loaded, loadedCooldowns, err := repo.Load(ctx, state.ID)

		// Then: Nothing is lost
		require.NoError(t, err)
		assert.Equal(t, state.Board, loaded.Board)
		assert.Equal(t, state.Turn, loaded.Turn)
		assert.Equal(t, state.Version, loaded.Version)
		assert.Equal(t, 3, loaded.SeatB.Tier)
		assert.True(t, loaded.Auxiliary.IsFrozen(entity.Index(0, 0)))
		require.Len(t, loadedCooldowns, 1)
		assert.Equal(t, "shield", loadedCooldowns[0].SkillID)
		assert.True(t, cooldowns[0].LastUsed.Equal(loadedCooldowns[0].LastUsed))
	})

	t.Run("Missing match is not found", func(t *testing.T) {
		ctx, st := suite.New(t)
		repo := NewMatchRepository(st.Storage, time.Hour)

		// When: Loading an unknown id
		_, _, err := repo.Load(ctx, "missing")

		// Then: Not found is reported
		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
		require.ErrorIs(t, err, apperror.ErrResourceNotFound)
	})

	t.Run("Matches expire after the ttl", func(t *testing.T) {
		ctx, st := suite.New(t)
		repo := NewMatchRepository(st.Storage, time.Minute)

		// Given: A saved match
		state := newState(t)
		require.NoError(t, repo.Save(ctx, state, nil))

		// When: The ttl elapses
		st.Redis.FastForward(2 * time.Minute)

		// Then: The match is gone
		_, _, err := repo.Load(ctx, state.ID)
		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})
}
