package entity

import "time"

// MatchRecord - archived summary of a finished match.
type MatchRecord struct {
	MatchID   string
	SeatA     string
	SeatB     string
	Winner    string
	Moves     []MoveRecord
	Skills    []SkillRecord
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Status    string
}

func NewMatchRecord(state MatchState) MatchRecord {
	record := MatchRecord{
		MatchID:   state.ID,
		Winner:    state.Winner,
		Moves:     state.Moves,
		Skills:    state.Skills,
		StartedAt: state.StartedAt,
		EndedAt:   state.EndedAt,
		Duration:  state.Duration(),
		Status:    state.Status,
	}

	if state.SeatA != nil {
		record.SeatA = state.SeatA.ParticipantID
	}
	if state.SeatB != nil {
		record.SeatB = state.SeatB.ParticipantID
	}

	return record
}
