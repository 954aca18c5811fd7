package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
)

func TestProfileRepository(t *testing.T) {
	t.Run("Stores and reads a profile", func(t *testing.T) {
		ctx, st := suite.New(t)
		repo := NewProfileRepository(st.Storage)

		// Given: A profile
		profile := &entity.Profile{ID: "alice", Name: "Alice", Avatar: "cat"}

		// When: It is stored and read back
		require.NoError(t, repo.CreateOrUpdate(ctx, profile))
		loaded, err := repo.GetByID(ctx, "alice")

		// Then: The fields match
		require.NoError(t, err)
		assert.Equal(t, profile, loaded)
	})

	t.Run("Update overwrites the name", func(t *testing.T) {
		ctx, st := suite.New(t)
		repo := NewProfileRepository(st.Storage)

		// Given: A stored profile
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Profile{ID: "bob", Name: "Bob"}))

		// When: It is stored again with a new name
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Profile{ID: "bob", Name: "Robert"}))

		// Then: The new name is returned
		loaded, err := repo.GetByID(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "Robert", loaded.Name)
	})

	t.Run("Unknown profile is not found", func(t *testing.T) {
		ctx, st := suite.New(t)
		repo := NewProfileRepository(st.Storage)

		// When: Reading an unknown id
		_, err := repo.GetByID(ctx, "nobody")

		// Then: Not found is reported
		require.ErrorIs(t, err, apperror.ErrProfileNotFound)
	})
}
