package hub

import (
	"context"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Snapshot - outbound view of a match as delivered to subscribers.
type Snapshot struct {
	MatchID    string           `json:"match_id"`
	Status     string           `json:"status"`
	Turn       entity.Seat      `json:"turn"`
	Board      entity.Board     `json:"board"`
	Winner     string           `json:"winner"`
	Auxiliary  entity.Auxiliary `json:"auxiliary"`
	LastEffect string           `json:"last_effect,omitempty"`
	SeatA      *SeatView        `json:"seat_a,omitempty"`
	SeatB      *SeatView        `json:"seat_b,omitempty"`
	Version    int64            `json:"version"`
}

type SeatView struct {
	Seat          entity.Seat     `json:"seat"`
	ParticipantID string          `json:"participant_id"`
	AI            bool            `json:"ai,omitempty"`
	Profile       *entity.Profile `json:"profile,omitempty"`
}

func (that *Hub) snapshot(ctx context.Context, state entity.MatchState) Snapshot {
	return Snapshot{
		MatchID:    state.ID,
		Status:     state.Status,
		Turn:       state.Turn,
		Board:      state.Board,
		Winner:     state.Winner,
		Auxiliary:  state.Auxiliary.Clone(),
		LastEffect: state.LastEffect,
		SeatA:      that.seatView(ctx, entity.SeatA, state.SeatA),
		SeatB:      that.seatView(ctx, entity.SeatB, state.SeatB),
		Version:    state.Version,
	}
}

func (that *Hub) seatView(ctx context.Context, seat entity.Seat, occupant *entity.Occupant) *SeatView {
	if occupant == nil {
		return nil
	}

	return &SeatView{
		Seat:          seat,
		ParticipantID: occupant.ParticipantID,
		AI:            occupant.AI,
		Profile:       that.identity.Resolve(ctx, occupant),
	}
}
