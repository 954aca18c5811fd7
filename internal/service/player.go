package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const defaultNameLength = 8

type IdentityService interface {
	Register(ctx context.Context, profile entity.Profile) (*entity.Profile, error)
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	Resolve(ctx context.Context, occupant *entity.Occupant) *entity.Profile
}

type profileRepo interface {
	CreateOrUpdate(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

type identityService struct {
	logger      *slog.Logger
	profileRepo profileRepo
}

func NewIdentityService(logger *slog.Logger, profileRepo profileRepo) IdentityService {
	return &identityService{
		logger:      logger,
		profileRepo: profileRepo,
	}
}

// Register - creates or updates a profile, generating the id when it is empty.
func (that *identityService) Register(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	if profile.ID == entity.AIParticipantID {
		return nil, fmt.Errorf("%w: participant id %q is reserved", apperror.ErrValidation, profile.ID)
	}

	if profile.Name == "" {
		existing, err := that.profileRepo.GetByID(ctx, profile.ID)
		switch {
		case err == nil:
			profile.Name = existing.Name
			if profile.Avatar == "" {
				profile.Avatar = existing.Avatar
			}
		case errors.Is(err, apperror.ErrProfileNotFound):
			profile.Name = defaultName(profile.ID)
		default:
			return nil, fmt.Errorf("get profile %w", err)
		}
	}

	if err := that.profileRepo.CreateOrUpdate(ctx, &profile); err != nil {
		return nil, fmt.Errorf("create profile %w", err)
	}

	return &profile, nil
}

func (that *identityService) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	profile, err := that.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile by id %w", err)
	}

	return profile, nil
}

// Resolve - display metadata for a seat occupant. The AI gets synthesized
// metadata and unknown participants fall back to their id.
func (that *identityService) Resolve(ctx context.Context, occupant *entity.Occupant) *entity.Profile {
	if occupant == nil {
		return nil
	}

	if occupant.AI {
		profile := entity.AIProfile()
		return &profile
	}

	profile, err := that.profileRepo.GetByID(ctx, occupant.ParticipantID)
	if err == nil {
		return profile
	}

	if !errors.Is(err, apperror.ErrProfileNotFound) {
		that.logger.Warn("failed to resolve profile", "method", "Resolve", "participantID", occupant.ParticipantID, "error", err)
	}

	return &entity.Profile{
		ID:   occupant.ParticipantID,
		Name: defaultName(occupant.ParticipantID),
	}
}

func defaultName(id string) string {
	if len(id) > defaultNameLength {
		return "player-" + id[:defaultNameLength]
	}
	return "player-" + id
}
