package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "occupied cell", err: ErrCellOccupied, want: CategoryValidation},
		{name: "wrapped turn", err: fmt.Errorf("submit: %w", ErrNotParticipantsTurn), want: CategoryIllegalStateTransition},
		{name: "stranger", err: fmt.Errorf("%w: bob", ErrNotParticipant), want: CategoryNotParticipant},
		{name: "missing skill", err: ErrSkillNotFound, want: CategoryNotFound},
		{name: "anything else", err: errors.New("redis down"), want: CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.err))
		})
	}
}
