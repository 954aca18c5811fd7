package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gomoku-backend/internal/ai"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/skill"
)

const (
	defaultSubscriberBuffer = 16
	defaultIdleTTL          = 24 * time.Hour
	defaultSweepInterval    = time.Minute
)

var ErrHubClosed = errors.New("hub is closed")

type matchRepo interface {
	Save(ctx context.Context, state entity.MatchState, cooldowns []skill.CooldownEntry) error
	Load(ctx context.Context, matchID string) (entity.MatchState, []skill.CooldownEntry, error)
}

type recordRepo interface {
	Save(ctx context.Context, record entity.MatchRecord) error
}

type identityService interface {
	Resolve(ctx context.Context, occupant *entity.Occupant) *entity.Profile
}

type botService interface {
	NextMove(state entity.MatchState) (int, error)
}

type Options struct {
	ThinkMin         time.Duration
	ThinkMax         time.Duration
	DefaultTier      int
	SubscriberBuffer int
	// IdleTTL - unwatched matches without activity for this long leave memory.
	IdleTTL       time.Duration
	SweepInterval time.Duration
	Now           func() time.Time
}

// Hub - owns the live matches. Every mutation of a match runs inside that
// match's critical section; distinct matches never contend.
type Hub struct {
	logger   *slog.Logger
	repo     matchRepo
	records  recordRepo
	identity identityService
	bot      botService
	registry *skill.Registry
	catalog  *skill.Catalog
	ledger   *skill.CooldownLedger
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	rngMu sync.Mutex
	rng   *rand.Rand

	mu     sync.Mutex
	rooms  map[string]*room
	closed bool
}

type room struct {
	mu      sync.Mutex
	engine  *gomoku.Engine
	members *membership
	aiTimer *time.Timer
	aiSeq   uint64
	touched time.Time
	evicted bool
}

// New - records may be nil when finished matches are not archived.
func New(
	logger *slog.Logger,
	repo matchRepo,
	records recordRepo,
	identity identityService,
	bot botService,
	registry *skill.Registry,
	catalog *skill.Catalog,
	opts Options,
) *Hub {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = defaultSubscriberBuffer
	}

	if opts.ThinkMax < opts.ThinkMin {
		opts.ThinkMax = opts.ThinkMin
	}

	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}

	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		logger:   logger,
		repo:     repo,
		records:  records,
		identity: identity,
		bot:      bot,
		registry: registry,
		catalog:  catalog,
		ledger:   skill.NewCooldownLedger(opts.Now),
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		rng:      rand.New(rand.NewSource(opts.Now().UnixNano())), //nolint:gosec // think delay only
		rooms:    make(map[string]*room),
	}

	h.wg.Add(1)
	go h.sweepLoop()

	return h
}

// Create - opens a match with the creator in seat A. With an AI opponent the
// AI takes seat B immediately and the match starts.
func (that *Hub) Create(ctx context.Context, creatorID string, withAI bool, tier int) (Snapshot, error) {
	log := that.logger.With("method", "Create", "creatorID", creatorID)

	if creatorID == "" || creatorID == entity.AIParticipantID {
		return Snapshot{}, fmt.Errorf("%w: invalid participant id %q", apperror.ErrValidation, creatorID)
	}

	if tier == 0 {
		tier = that.opts.DefaultTier
	}

	if withAI && !ai.Tier(tier).Valid() {
		return Snapshot{}, fmt.Errorf("%w: unknown ai tier %d", apperror.ErrValidation, tier)
	}

	engine := gomoku.NewEngine(uuid.NewString(), that.opts.Now)

	if _, err := engine.Join(entity.Occupant{ParticipantID: creatorID}); err != nil {
		return Snapshot{}, fmt.Errorf("seat creator %w", err)
	}

	if withAI {
		occupant := entity.Occupant{ParticipantID: entity.AIParticipantID, AI: true, Tier: tier}
		if _, err := engine.Join(occupant); err != nil {
			return Snapshot{}, fmt.Errorf("seat ai %w", err)
		}
	}

	r := &room{
		engine:  engine,
		members: newMembership(),
		touched: that.opts.Now(),
	}
	r.members.add(creatorID, RolePlayer)

	matchID := engine.State().ID

	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return Snapshot{}, ErrHubClosed
	}
	that.rooms[matchID] = r
	that.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := that.afterTransition(ctx, r, engine.State())

	log.Info("match created", "matchID", matchID, "withAI", withAI)

	return snapshot, nil
}

// Join - seats a player or registers a spectator. A player who is already
// seated gets the current snapshot back.
func (that *Hub) Join(ctx context.Context, matchID, participantID string, role Role) (Snapshot, error) {
	if !role.Valid() {
		return Snapshot{}, fmt.Errorf("%w: unknown role %q", apperror.ErrValidation, role)
	}

	if participantID == "" || participantID == entity.AIParticipantID {
		return Snapshot{}, fmt.Errorf("%w: invalid participant id %q", apperror.ErrValidation, participantID)
	}

	return that.mutate(ctx, matchID, func(r *room) error {
		if role == RoleSpectator {
			r.members.add(participantID, RoleSpectator)
			return nil
		}

		if _, err := r.engine.Join(entity.Occupant{ParticipantID: participantID}); err != nil {
			return err
		}

		r.members.add(participantID, RolePlayer)

		return nil
	})
}

// SubmitMove - places the participant's stone on cell.
func (that *Hub) SubmitMove(ctx context.Context, matchID, participantID string, cell int) (Snapshot, error) {
	return that.mutate(ctx, matchID, func(r *room) error {
		return r.engine.ApplyMove(participantID, cell)
	})
}

// SubmitSkill - applies a catalog skill on behalf of the participant holding
// the turn. A successful skill starts its cooldown and leaves the turn as is.
func (that *Hub) SubmitSkill(ctx context.Context, matchID, skillID string, req entity.SkillRequest) (Snapshot, error) {
	descriptor, err := that.catalog.Get(skillID)
	if err != nil {
		return Snapshot{}, err
	}

	if !descriptor.Enabled {
		return Snapshot{}, fmt.Errorf("%w: %s", apperror.ErrSkillDisabled, skillID)
	}

	return that.mutate(ctx, matchID, func(r *room) error {
		state := r.engine.State()

		if state.IsFinished() {
			return apperror.ErrMatchAlreadyOver
		}

		seat, ok := state.SeatOf(req.ParticipantID)
		if !ok {
			return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, req.ParticipantID)
		}

		if err := state.ConfirmInProgress(); err != nil {
			return err
		}

		if state.Turn != seat {
			return apperror.ErrNotParticipantsTurn
		}

		key := skill.CooldownKey{ParticipantID: req.ParticipantID, MatchID: matchID, SkillID: skillID}
		cooldown := time.Duration(descriptor.CooldownSeconds) * time.Second

		if !that.ledger.Ready(key, cooldown) {
			remaining := that.ledger.Remaining(key, cooldown)
			return fmt.Errorf("%w: %s ready in %s", apperror.ErrSkillOnCooldown, skillID, remaining.Round(time.Second))
		}

		if err := that.registry.CanApply(descriptor.Effect, state, req); err != nil {
			return err
		}

		err := r.engine.ApplyEffect(req.ParticipantID, func(current entity.MatchState) (entity.MatchState, error) {
			next, err := that.registry.Apply(descriptor.Effect, current, req)
			if err != nil {
				return current, err
			}

			next.Skills = append(next.Skills, entity.SkillRecord{
				ParticipantID: req.ParticipantID,
				SkillID:       skillID,
				Effect:        descriptor.Effect,
				Target:        req.Target,
				Params:        req.Params,
				Description:   next.LastEffect,
				At:            that.opts.Now(),
			})

			return next, nil
		})
		if err != nil {
			return err
		}

		that.ledger.Record(key)

		return nil
	})
}

// Leave - removes the participant from the match. A seated player leaving an
// unfinished match forfeits it.
func (that *Hub) Leave(ctx context.Context, matchID, participantID string) (Snapshot, error) {
	snapshot, err := that.mutate(ctx, matchID, func(r *room) error {
		state := r.engine.State()

		_, joined := r.members.role(participantID)
		seated := state.IsParticipant(participantID)

		if !joined && !seated {
			return fmt.Errorf("%w: %s", apperror.ErrNotParticipant, participantID)
		}

		r.members.remove(participantID)

		if seated && !state.IsFinished() {
			return r.engine.Forfeit(participantID)
		}

		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	that.evictIfIdle(matchID)

	return snapshot, nil
}

// Subscribe - live snapshot stream for the participant. Participants that
// never joined are registered as spectators.
func (that *Hub) Subscribe(ctx context.Context, matchID, participantID string) (*Subscription, Snapshot, error) {
	r, err := that.lockedRoom(ctx, matchID)
	if err != nil {
		return nil, Snapshot{}, err
	}
	defer r.mu.Unlock()

	r.touched = that.opts.Now()

	state := r.engine.State()

	role := RoleSpectator
	if state.IsParticipant(participantID) {
		role = RolePlayer
	}

	r.members.add(participantID, role)
	subscription := r.members.attach(matchID, participantID, role, that.opts.SubscriberBuffer)

	return subscription, that.snapshot(ctx, state), nil
}

// Unsubscribe - closes the subscription. Membership and seats are kept.
func (that *Hub) Unsubscribe(subscription *Subscription) {
	if subscription == nil {
		return
	}

	that.mu.Lock()
	r, ok := that.rooms[subscription.MatchID]
	that.mu.Unlock()

	if !ok {
		subscription.close()
		return
	}

	r.members.detach(subscription)
}

func (that *Hub) Snapshot(ctx context.Context, matchID string) (Snapshot, error) {
	r, err := that.lockedRoom(ctx, matchID)
	if err != nil {
		return Snapshot{}, err
	}
	defer r.mu.Unlock()

	return that.snapshot(ctx, r.engine.State()), nil
}

// OpenMatches - waiting matches held in memory, oldest first.
func (that *Hub) OpenMatches(ctx context.Context) []Snapshot {
	that.mu.Lock()
	rooms := make([]*room, 0, len(that.rooms))
	for _, r := range that.rooms {
		rooms = append(rooms, r)
	}
	that.mu.Unlock()

	type waitingMatch struct {
		createdAt time.Time
		snapshot  Snapshot
	}

	var waiting []waitingMatch
	for _, r := range rooms {
		r.mu.Lock()
		state := r.engine.State()
		if !r.evicted && state.IsWaiting() {
			waiting = append(waiting, waitingMatch{createdAt: state.CreatedAt, snapshot: that.snapshot(ctx, state)})
		}
		r.mu.Unlock()
	}

	sort.Slice(waiting, func(i, j int) bool {
		if waiting[i].createdAt.Equal(waiting[j].createdAt) {
			return waiting[i].snapshot.MatchID < waiting[j].snapshot.MatchID
		}
		return waiting[i].createdAt.Before(waiting[j].createdAt)
	})

	snapshots := make([]Snapshot, 0, len(waiting))
	for _, item := range waiting {
		snapshots = append(snapshots, item.snapshot)
	}

	return snapshots
}

// CooldownStatus - remaining cooldown of one skill for one participant.
type CooldownStatus struct {
	SkillID          string `json:"skill_id"`
	Name             string `json:"name"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Ready            bool   `json:"ready"`
}

// Cooldowns - remaining cooldowns of every enabled skill.
func (that *Hub) Cooldowns(ctx context.Context, matchID, participantID string) ([]CooldownStatus, error) {
	if _, err := that.room(ctx, matchID); err != nil {
		return nil, err
	}

	enabled := that.catalog.Enabled()
	statuses := make([]CooldownStatus, 0, len(enabled))

	for _, descriptor := range enabled {
		key := skill.CooldownKey{ParticipantID: participantID, MatchID: matchID, SkillID: descriptor.ID}
		remaining := that.ledger.Remaining(key, time.Duration(descriptor.CooldownSeconds)*time.Second)

		seconds := int(remaining / time.Second)
		if remaining%time.Second > 0 {
			seconds++
		}

		statuses = append(statuses, CooldownStatus{
			SkillID:          descriptor.ID,
			Name:             descriptor.Name,
			RemainingSeconds: seconds,
			Ready:            remaining == 0,
		})
	}

	return statuses, nil
}

// Close - stops pending AI turns, waits for running ones and closes every subscription.
func (that *Hub) Close() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	that.closed = true

	rooms := make([]*room, 0, len(that.rooms))
	for _, r := range that.rooms {
		rooms = append(rooms, r)
	}
	that.mu.Unlock()

	that.cancel()

	for _, r := range rooms {
		r.mu.Lock()
		that.stopAI(r)
		r.mu.Unlock()
	}

	that.wg.Wait()

	for _, r := range rooms {
		r.members.closeAll()
	}

	that.logger.Info("hub closed", "method", "Close", "matches", len(rooms))
}

// mutate - runs fn inside the match's critical section. When fn changes the
// state, the new state is persisted and broadcast before the lock is released.
func (that *Hub) mutate(ctx context.Context, matchID string, fn func(r *room) error) (Snapshot, error) {
	r, err := that.lockedRoom(ctx, matchID)
	if err != nil {
		return Snapshot{}, err
	}
	defer r.mu.Unlock()

	r.touched = that.opts.Now()
	before := r.engine.Version()

	if err = fn(r); err != nil {
		return Snapshot{}, err
	}

	state := r.engine.State()
	if state.Version == before {
		return that.snapshot(ctx, state), nil
	}

	return that.afterTransition(ctx, r, state), nil
}

// afterTransition - persist, broadcast, archive and AI scheduling. The caller
// holds the room lock.
func (that *Hub) afterTransition(ctx context.Context, r *room, state entity.MatchState) Snapshot {
	log := that.logger.With("method", "afterTransition", "matchID", state.ID, "version", state.Version)

	if err := that.repo.Save(ctx, state, that.ledger.Entries(state.ID)); err != nil {
		log.Error("failed to persist match", "error", err)
	}

	snapshot := that.snapshot(ctx, state)

	for _, failed := range r.members.broadcast(snapshot) {
		log.Warn("dropping subscriber after failed delivery", "participantID", failed.ParticipantID)
		r.members.drop(failed)
	}

	if state.IsFinished() {
		that.stopAI(r)
		that.archive(ctx, state)

		return snapshot
	}

	if state.IsInProgress() && state.IsAITurn() {
		that.scheduleAI(r, state.ID, state.Version)
	}

	return snapshot
}

func (that *Hub) archive(ctx context.Context, state entity.MatchState) {
	if that.records == nil {
		return
	}

	if err := that.records.Save(ctx, entity.NewMatchRecord(state)); err != nil {
		that.logger.Error("failed to archive match", "method", "archive", "matchID", state.ID, "error", err)
	}
}

// room - the live room of the match, restored from the repository on first use.
func (that *Hub) room(ctx context.Context, matchID string) (*room, error) {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return nil, ErrHubClosed
	}

	r, ok := that.rooms[matchID]
	that.mu.Unlock()

	if ok {
		return r, nil
	}

	state, cooldowns, err := that.repo.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}

	restored := &room{
		engine:  gomoku.Restore(state, that.opts.Now),
		members: newMembership(),
		touched: that.opts.Now(),
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil, ErrHubClosed
	}

	if existing, ok := that.rooms[matchID]; ok {
		return existing, nil
	}

	that.ledger.Restore(cooldowns)
	that.rooms[matchID] = restored

	if state.IsInProgress() && state.IsAITurn() {
		restored.mu.Lock()
		that.scheduleAI(restored, state.ID, state.Version)
		restored.mu.Unlock()
	}

	that.logger.Info("match restored", "method", "room", "matchID", matchID, "version", state.Version)

	return restored, nil
}

// lockedRoom - the live room of the match with its lock held. A room evicted
// between lookup and locking is looked up again.
func (that *Hub) lockedRoom(ctx context.Context, matchID string) (*room, error) {
	for {
		r, err := that.room(ctx, matchID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if !r.evicted {
			return r, nil
		}
		r.mu.Unlock()
	}
}

// evictIfIdle - drops a finished match without members from memory.
func (that *Hub) evictIfIdle(matchID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	r, ok := that.rooms[matchID]
	if !ok || r.members.len() > 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine.State().IsFinished() {
		that.evict(matchID, r)
	}
}

// evict - the caller holds the hub lock and the room lock. The match stays in
// the repository and is restored on next use.
func (that *Hub) evict(matchID string, r *room) {
	that.stopAI(r)
	r.aiSeq++
	r.evicted = true
	r.members.closeAll()

	delete(that.rooms, matchID)
}
