package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const profileKeyPrefix = "profile:"

type ProfileRepository interface {
	CreateOrUpdate(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

type dbProfile struct {
	client *redis.Client
}

func NewProfileRepository(client *redis.Client) ProfileRepository {
	return &dbProfile{
		client: client,
	}
}

func (that *dbProfile) CreateOrUpdate(ctx context.Context, profile *entity.Profile) error {
	err := that.client.HSet(ctx, profileKeyPrefix+profile.ID,
		"name", profile.Name,
		"avatar", profile.Avatar,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}

	return nil
}

func (that *dbProfile) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	fields, err := that.client.HGetAll(ctx, profileKeyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", apperror.ErrProfileNotFound, id)
	}

	return &entity.Profile{
		ID:     id,
		Name:   fields["name"],
		Avatar: fields["avatar"],
	}, nil
}
