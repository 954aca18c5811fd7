package apperror

import (
	"errors"
	"fmt"
)

// Categories. Every specific error below wraps exactly one of them,
// so errors.Is matches both the specific error and its category.
var (
	ErrValidation             = errors.New("validation error")
	ErrIllegalStateTransition = errors.New("illegal state transition")
	ErrNotParticipant         = errors.New("not a participant of this match")
	ErrResourceNotFound       = errors.New("resource not found")
)

var (
	ErrOutOfRange    = fmt.Errorf("%w: cell index out of range", ErrValidation)
	ErrCellOccupied  = fmt.Errorf("%w: cell is already occupied", ErrValidation)
	ErrInvalidCell   = fmt.Errorf("%w: cell is occupied or frozen", ErrValidation)
	ErrInvalidParams = fmt.Errorf("%w: invalid params", ErrValidation)

	ErrMatchFull           = fmt.Errorf("%w: match is full", ErrIllegalStateTransition)
	ErrNotParticipantsTurn = fmt.Errorf("%w: it's not your turn", ErrIllegalStateTransition)
	ErrMatchAlreadyOver    = fmt.Errorf("%w: match is already finished", ErrIllegalStateTransition)
	ErrMatchNotStarted     = fmt.Errorf("%w: match is not started", ErrIllegalStateTransition)
	ErrIllegalSkillUse     = fmt.Errorf("%w: skill preconditions are not met", ErrIllegalStateTransition)
	ErrSkillOnCooldown     = fmt.Errorf("%w: skill is on cooldown", ErrIllegalStateTransition)
	ErrSkillDisabled       = fmt.Errorf("%w: skill is disabled", ErrIllegalStateTransition)

	ErrMatchNotFound   = fmt.Errorf("%w: match not found", ErrResourceNotFound)
	ErrSkillNotFound   = fmt.Errorf("%w: skill not found", ErrResourceNotFound)
	ErrProfileNotFound = fmt.Errorf("%w: profile not found", ErrResourceNotFound)
)
