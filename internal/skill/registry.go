package skill

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Handler - the check/apply pair behind one effect kind. CanApply returns the
// violated precondition, or nil.
type Handler struct {
	CanApply func(state entity.MatchState, req entity.SkillRequest) error
	Apply    func(state entity.MatchState, req entity.SkillRequest) (entity.MatchState, error)
}

// Registry - lookup table from effect kind to handler. It holds no match state.
type Registry struct {
	handlers map[entity.EffectKind]Handler
}

// NewRegistry - registry with every built-in effect registered.
func NewRegistry() *Registry {
	registry := &Registry{
		handlers: make(map[entity.EffectKind]Handler),
	}

	for kind, fx := range builtinEffects() {
		registry.Register(kind, fx.handler(kind))
	}

	return registry
}

func (that *Registry) Register(kind entity.EffectKind, handler Handler) {
	that.handlers[kind] = handler
}

func (that *Registry) Supports(kind entity.EffectKind) bool {
	_, ok := that.handlers[kind]
	return ok
}

// CanApply - nil when the effect's preconditions hold for state and req.
func (that *Registry) CanApply(kind entity.EffectKind, state entity.MatchState, req entity.SkillRequest) error {
	handler, ok := that.handlers[kind]
	if !ok {
		return fmt.Errorf("%w: effect %s", apperror.ErrSkillNotFound, kind)
	}

	return handler.CanApply(state, req)
}

// Apply - returns the new state; state itself is never modified.
func (that *Registry) Apply(kind entity.EffectKind, state entity.MatchState, req entity.SkillRequest) (entity.MatchState, error) {
	handler, ok := that.handlers[kind]
	if !ok {
		return state, fmt.Errorf("%w: effect %s", apperror.ErrSkillNotFound, kind)
	}

	return handler.Apply(state.Clone(), req)
}

// effect - validate checks preconditions, mutate assumes they hold and returns
// the effect description.
type effect struct {
	validate func(state entity.MatchState, req entity.SkillRequest) error
	mutate   func(state *entity.MatchState, req entity.SkillRequest) string
}

func (that effect) handler(kind entity.EffectKind) Handler {
	return Handler{
		CanApply: func(state entity.MatchState, req entity.SkillRequest) error {
			if err := that.validate(state, req); err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}

			return nil
		},
		Apply: func(state entity.MatchState, req entity.SkillRequest) (entity.MatchState, error) {
			if err := that.validate(state, req); err != nil {
				return state, fmt.Errorf("%s: %w", kind, err)
			}

			state.LastEffect = that.mutate(&state, req)

			return state, nil
		},
	}
}
