package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
	"github.com/rocketscienceinc/gomoku-backend/internal/skill"
)

type identityService interface {
	Register(ctx context.Context, profile entity.Profile) (*entity.Profile, error)
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

type matchHub interface {
	Create(ctx context.Context, creatorID string, withAI bool, tier int) (hub.Snapshot, error)
	Join(ctx context.Context, matchID, participantID string, role hub.Role) (hub.Snapshot, error)
	Leave(ctx context.Context, matchID, participantID string) (hub.Snapshot, error)
	SubmitMove(ctx context.Context, matchID, participantID string, cell int) (hub.Snapshot, error)
	SubmitSkill(ctx context.Context, matchID, skillID string, req entity.SkillRequest) (hub.Snapshot, error)
	Subscribe(ctx context.Context, matchID, participantID string) (*hub.Subscription, hub.Snapshot, error)
	Unsubscribe(subscription *hub.Subscription)
	Snapshot(ctx context.Context, matchID string) (hub.Snapshot, error)
	Cooldowns(ctx context.Context, matchID, participantID string) ([]hub.CooldownStatus, error)
	OpenMatches(ctx context.Context) []hub.Snapshot
}

type recordReader interface {
	GetByID(ctx context.Context, matchID string) (*entity.MatchRecord, error)
	ListByParticipant(ctx context.Context, participantID string, limit int) ([]entity.MatchRecord, error)
}

type skillCatalog interface {
	Enabled() []entity.SkillDescriptor
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var ErrRecordsDisabled = fmt.Errorf("%w: finished matches are not archived", apperror.ErrResourceNotFound)

// SkillView - catalog entry as listed to clients.
type SkillView struct {
	entity.SkillDescriptor
	Summary string `json:"summary"`
}

// MatchManager - entry point of the transports into players, matches and skills.
type MatchManager struct {
	logger   *slog.Logger
	identity identityService
	hub      matchHub
	records  recordReader
	catalog  skillCatalog
}

// NewMatchManager - records may be nil when finished matches are not archived.
func NewMatchManager(
	logger *slog.Logger,
	identity identityService,
	matches matchHub,
	records recordReader,
	catalog skillCatalog,
) *MatchManager {
	return &MatchManager{
		logger: logger,

		identity: identity,
		hub:      matches,
		records:  records,
		catalog:  catalog,
	}
}

func (that *MatchManager) RegisterPlayer(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	registered, err := that.identity.Register(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to register player: %w", err)
	}

	return registered, nil
}

// CreateMatch - creates a match for a known or newly registered participant.
func (that *MatchManager) CreateMatch(ctx context.Context, creatorID string, withAI bool, tier int) (hub.Snapshot, error) {
	log := that.logger.With("method", "CreateMatch", "creatorID", creatorID)

	if err := that.ensurePlayer(ctx, creatorID); err != nil {
		return hub.Snapshot{}, err
	}

	snapshot, err := that.hub.Create(ctx, creatorID, withAI, tier)
	if err != nil {
		log.Warn("failed to create match", "error", err)
		return hub.Snapshot{}, err
	}

	return snapshot, nil
}

func (that *MatchManager) JoinMatch(ctx context.Context, matchID, participantID string, role hub.Role) (hub.Snapshot, error) {
	if role == "" {
		role = hub.RolePlayer
	}

	if err := that.ensurePlayer(ctx, participantID); err != nil {
		return hub.Snapshot{}, err
	}

	return that.hub.Join(ctx, matchID, participantID, role)
}

func (that *MatchManager) MakeMove(ctx context.Context, matchID, participantID string, cell int) (hub.Snapshot, error) {
	return that.hub.SubmitMove(ctx, matchID, participantID, cell)
}

func (that *MatchManager) UseSkill(ctx context.Context, matchID, skillID string, req entity.SkillRequest) (hub.Snapshot, error) {
	if skillID == "" {
		return hub.Snapshot{}, fmt.Errorf("%w: skill id is required", apperror.ErrValidation)
	}

	return that.hub.SubmitSkill(ctx, matchID, skillID, req)
}

func (that *MatchManager) LeaveMatch(ctx context.Context, matchID, participantID string) (hub.Snapshot, error) {
	return that.hub.Leave(ctx, matchID, participantID)
}

func (that *MatchManager) Watch(ctx context.Context, matchID, participantID string) (*hub.Subscription, hub.Snapshot, error) {
	return that.hub.Subscribe(ctx, matchID, participantID)
}

func (that *MatchManager) Unwatch(subscription *hub.Subscription) {
	that.hub.Unsubscribe(subscription)
}

func (that *MatchManager) GetMatch(ctx context.Context, matchID string) (hub.Snapshot, error) {
	return that.hub.Snapshot(ctx, matchID)
}

func (that *MatchManager) Cooldowns(ctx context.Context, matchID, participantID string) ([]hub.CooldownStatus, error) {
	if participantID == "" {
		return nil, fmt.Errorf("%w: participant is required", apperror.ErrValidation)
	}

	return that.hub.Cooldowns(ctx, matchID, participantID)
}

// OpenMatches - matches waiting for a second player.
func (that *MatchManager) OpenMatches(ctx context.Context) []hub.Snapshot {
	return that.hub.OpenMatches(ctx)
}

func (that *MatchManager) GetRecord(ctx context.Context, matchID string) (*entity.MatchRecord, error) {
	if that.records == nil {
		return nil, ErrRecordsDisabled
	}

	record, err := that.records.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match record: %w", err)
	}

	return record, nil
}

// History - finished matches of the participant, most recent first. A limit
// outside (0, MaxHistoryLimit] falls back to DefaultHistoryLimit.
func (that *MatchManager) History(ctx context.Context, participantID string, limit int) ([]entity.MatchRecord, error) {
	if participantID == "" {
		return nil, fmt.Errorf("%w: participant is required", apperror.ErrValidation)
	}

	if that.records == nil {
		return nil, ErrRecordsDisabled
	}

	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}

	records, err := that.records.ListByParticipant(ctx, participantID, limit)
	if err != nil {
		that.logger.Error("failed to list match records", "method", "History", "participantID", participantID, "error", err)
		return nil, fmt.Errorf("failed to list match records: %w", err)
	}

	return records, nil
}

// Skills - enabled skills of the catalog.
func (that *MatchManager) Skills() []SkillView {
	enabled := that.catalog.Enabled()
	views := make([]SkillView, 0, len(enabled))

	for _, descriptor := range enabled {
		views = append(views, SkillView{
			SkillDescriptor: descriptor,
			Summary:         skill.Describe(descriptor),
		})
	}

	return views
}

func (that *MatchManager) ensurePlayer(ctx context.Context, participantID string) error {
	if participantID == "" {
		return fmt.Errorf("%w: participant is required", apperror.ErrValidation)
	}

	_, err := that.identity.GetByID(ctx, participantID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, apperror.ErrProfileNotFound) {
		return fmt.Errorf("failed to get player: %w", err)
	}

	if _, err = that.identity.Register(ctx, entity.Profile{ID: participantID}); err != nil {
		return fmt.Errorf("failed to register player: %w", err)
	}

	return nil
}
