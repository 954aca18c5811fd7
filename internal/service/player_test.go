package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockProfileRepo struct {
	mock.Mock
}

func (that *mockProfileRepo) CreateOrUpdate(ctx context.Context, profile *entity.Profile) error {
	args := that.Called(ctx, profile)
	return args.Error(0)
}

func (that *mockProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	args := that.Called(ctx, id)
	profile, _ := args.Get(0).(*entity.Profile)
	return profile, args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIdentityService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Generates an id and a name for a new participant", func(t *testing.T) {
		// Given: An empty repository
		repo := &mockProfileRepo{}
		repo.On("GetByID", mock.Anything, mock.AnythingOfType("string")).
			Return(nil, apperror.ErrProfileNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Profile")).
			Return(nil).Once()

		identity := NewIdentityService(newTestLogger(), repo)

		// When: Registering without id or name
		profile, err := identity.Register(ctx, entity.Profile{})

		// Then: Both are generated
		require.NoError(t, err)
		assert.NotEmpty(t, profile.ID)
		assert.Equal(t, defaultName(profile.ID), profile.Name)
		repo.AssertExpectations(t)
	})

	t.Run("Keeps the stored name when none is given", func(t *testing.T) {
		// Given: A stored profile
		repo := &mockProfileRepo{}
		repo.On("GetByID", mock.Anything, "alice").
			Return(&entity.Profile{ID: "alice", Name: "Alice", Avatar: "cat"}, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, &entity.Profile{ID: "alice", Name: "Alice", Avatar: "cat"}).
			Return(nil).Once()

		identity := NewIdentityService(newTestLogger(), repo)

		// When: Alice reconnects by id only
		profile, err := identity.Register(ctx, entity.Profile{ID: "alice"})

		// Then: The stored profile is kept
		require.NoError(t, err)
		assert.Equal(t, "Alice", profile.Name)
		assert.Equal(t, "cat", profile.Avatar)
		repo.AssertExpectations(t)
	})

	t.Run("Rejects the reserved AI id", func(t *testing.T) {
		// Given: A repository that must not be touched
		repo := &mockProfileRepo{}
		identity := NewIdentityService(newTestLogger(), repo)

		// When: Registering as the AI
		_, err := identity.Register(ctx, entity.Profile{ID: entity.AIParticipantID, Name: "x"})

		// Then: Validation fails
		require.ErrorIs(t, err, apperror.ErrValidation)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Propagates storage errors", func(t *testing.T) {
		// Given: A failing repository
		repo := &mockProfileRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		identity := NewIdentityService(newTestLogger(), repo)

		// When: Registering with a name
		_, err := identity.Register(ctx, entity.Profile{ID: "bob", Name: "Bob"})

		// Then: The error is returned
		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestIdentityService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Synthesizes the AI", func(t *testing.T) {
		// Given: A repository that must not be touched
		repo := &mockProfileRepo{}
		identity := NewIdentityService(newTestLogger(), repo)

		// When: Resolving the AI seat
		profile := identity.Resolve(ctx, &entity.Occupant{ParticipantID: entity.AIParticipantID, AI: true})

		// Then: AI metadata is returned
		require.NotNil(t, profile)
		assert.Equal(t, entity.AIName, profile.Name)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Falls back to the id", func(t *testing.T) {
		// Given: A repository without the participant
		repo := &mockProfileRepo{}
		repo.On("GetByID", mock.Anything, "ghost").Return(nil, errRedisDown).Once()
		identity := NewIdentityService(newTestLogger(), repo)

		// When: Resolving the participant
		profile := identity.Resolve(ctx, &entity.Occupant{ParticipantID: "ghost"})

		// Then: A generated name is used
		require.NotNil(t, profile)
		assert.Equal(t, "ghost", profile.ID)
		assert.Equal(t, "player-ghost", profile.Name)
	})

	t.Run("Empty seat resolves to nothing", func(t *testing.T) {
		identity := NewIdentityService(newTestLogger(), &mockProfileRepo{})
		assert.Nil(t, identity.Resolve(ctx, nil))
	})
}
