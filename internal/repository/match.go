package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/skill"
)

const matchKeyPrefix = "match:"

type MatchRepository interface {
	Save(ctx context.Context, state entity.MatchState, cooldowns []skill.CooldownEntry) error
	Load(ctx context.Context, matchID string) (entity.MatchState, []skill.CooldownEntry, error)
}

// matchDocument - the stored value: state and the cooldowns of the match.
type matchDocument struct {
	State     entity.MatchState     `json:"state"`
	Cooldowns []skill.CooldownEntry `json:"cooldowns,omitempty"`
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository - ttl of zero keeps matches forever.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMatch) Save(ctx context.Context, state entity.MatchState, cooldowns []skill.CooldownEntry) error {
	matchJSON, err := json.Marshal(matchDocument{State: state, Cooldowns: cooldowns})
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	if err = that.client.Set(ctx, matchKeyPrefix+state.ID, matchJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) Load(ctx context.Context, matchID string) (entity.MatchState, []skill.CooldownEntry, error) {
	response, err := that.client.Get(ctx, matchKeyPrefix+matchID).Bytes()

	if errors.Is(err, redis.Nil) {
		return entity.MatchState{}, nil, fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, matchID)
	}

	if err != nil {
		return entity.MatchState{}, nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var document matchDocument
	if err = json.Unmarshal(response, &document); err != nil {
		return entity.MatchState{}, nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return document.State, document.Cooldowns, nil
}
