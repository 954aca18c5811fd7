package apperror

import "errors"

const (
	CategoryValidation             = "validation"
	CategoryIllegalStateTransition = "illegal_state_transition"
	CategoryNotParticipant         = "not_participant"
	CategoryNotFound               = "not_found"
	CategoryInternal               = "internal"
)

// Category - the category err belongs to, CategoryInternal for anything else.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CategoryValidation
	case errors.Is(err, ErrIllegalStateTransition):
		return CategoryIllegalStateTransition
	case errors.Is(err, ErrNotParticipant):
		return CategoryNotParticipant
	case errors.Is(err, ErrResourceNotFound):
		return CategoryNotFound
	default:
		return CategoryInternal
	}
}
