package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
)

func TestRecordRepository(t *testing.T) {
	ctx, db := suite.NewPostgres(t)

	repo := NewRecordRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	record := entity.MatchRecord{
		MatchID: "m-1",
		SeatA:   "alice",
		SeatB:   "bob",
		Winner:  entity.WinnerA,
		Status:  entity.StatusFinished,
		Moves: []entity.MoveRecord{
			{Seat: entity.SeatA, ParticipantID: "alice", Cell: entity.CenterCell, At: started},
		},
		StartedAt: started,
		EndedAt:   started.Add(90 * time.Second),
		Duration:  90 * time.Second,
	}

	t.Run("Saves and reads a record", func(t *testing.T) {
		// When: The record is saved
		require.NoError(t, repo.Save(ctx, record))

		// Then: It reads back
		loaded, err := repo.GetByID(ctx, record.MatchID)
		require.NoError(t, err)
		assert.Equal(t, record.Winner, loaded.Winner)
		assert.Equal(t, record.Duration, loaded.Duration)
		require.Len(t, loaded.Moves, 1)
		assert.Equal(t, entity.CenterCell, loaded.Moves[0].Cell)
		assert.Empty(t, loaded.Skills)
	})

	t.Run("Saving again upserts", func(t *testing.T) {
		// Given: A stored record
		require.NoError(t, repo.Save(ctx, record))

		// When: It is saved with another winner
		changed := record
		changed.Winner = entity.WinnerB
		require.NoError(t, repo.Save(ctx, changed))

		// Then: The latest winner is kept
		loaded, err := repo.GetByID(ctx, record.MatchID)
		require.NoError(t, err)
		assert.Equal(t, entity.WinnerB, loaded.Winner)
	})

	t.Run("Lists a participant's records most recent first", func(t *testing.T) {
		// Given: Two matches with Alice and one without her
		require.NoError(t, repo.Save(ctx, record))

		later := record
		later.MatchID = "m-2"
		later.SeatA, later.SeatB = "carol", "alice"
		later.EndedAt = record.EndedAt.Add(time.Hour)
		require.NoError(t, repo.Save(ctx, later))

		other := record
		other.MatchID = "m-3"
		other.SeatA, other.SeatB = "carol", "dave"
		require.NoError(t, repo.Save(ctx, other))

		// When: Listing Alice's history
		all, err := repo.ListByParticipant(ctx, "alice", 10)
		require.NoError(t, err)
		limited, err := repo.ListByParticipant(ctx, "alice", 1)
		require.NoError(t, err)

		// Then: Only her matches are listed, newest first
		require.Len(t, all, 2)
		assert.Equal(t, "m-2", all[0].MatchID)
		assert.Equal(t, "m-1", all[1].MatchID)
		require.Len(t, limited, 1)
		assert.Equal(t, "m-2", limited[0].MatchID)
	})

	t.Run("Unknown record is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrResourceNotFound)
	})
}
