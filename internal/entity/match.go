package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	StatusWaiting    = "WAITING"
	StatusInProgress = "IN_PROGRESS"
	StatusFinished   = "FINISHED"

	WinnerA    = "A"
	WinnerB    = "B"
	WinnerDraw = "DRAW"
	WinnerNone = "NONE"
)

const AIParticipantID = "ai"

type Seat string

const (
	SeatA Seat = "A"
	SeatB Seat = "B"
)

// Symbol - seat A always plays SymbolA and seat B always plays SymbolB.
func (that Seat) Symbol() Symbol {
	if that == SeatA {
		return SymbolA
	}
	return SymbolB
}

func (that Seat) Other() Seat {
	if that == SeatA {
		return SeatB
	}
	return SeatA
}

func (that Seat) Winner() string {
	if that == SeatA {
		return WinnerA
	}
	return WinnerB
}

// Occupant - whoever holds a seat: a human participant or the AI.
type Occupant struct {
	ParticipantID string `json:"participant_id"`
	AI            bool   `json:"ai,omitempty"`
	Tier          int    `json:"tier,omitempty"`
}

type MoveRecord struct {
	Seat          Seat      `json:"seat"`
	ParticipantID string    `json:"participant_id"`
	Cell          int       `json:"cell"`
	At            time.Time `json:"at"`
}

type SkillRecord struct {
	ParticipantID string     `json:"participant_id"`
	SkillID       string     `json:"skill_id"`
	Effect        EffectKind `json:"effect"`
	Target        *int       `json:"target,omitempty"`
	Params        string     `json:"params,omitempty"`
	Description   string     `json:"description"`
	At            time.Time  `json:"at"`
}

type MatchState struct {
	ID         string        `json:"id"`
	Board      Board         `json:"board"`
	Turn       Seat          `json:"turn"`
	Status     string        `json:"status"`
	Winner     string        `json:"winner"`
	Auxiliary  Auxiliary     `json:"auxiliary"`
	LastEffect string        `json:"last_effect,omitempty"`
	SeatA      *Occupant     `json:"seat_a,omitempty"`
	SeatB      *Occupant     `json:"seat_b,omitempty"`
	Moves      []MoveRecord  `json:"moves,omitempty"`
	Skills     []SkillRecord `json:"skills,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	StartedAt  time.Time     `json:"started_at"`
	EndedAt    time.Time     `json:"ended_at"`
	Version    int64         `json:"version"`
}

func NewMatchState(id string, createdAt time.Time) MatchState {
	return MatchState{
		ID:        id,
		Board:     EmptyBoard(),
		Turn:      SeatA,
		Status:    StatusWaiting,
		Winner:    WinnerNone,
		Auxiliary: NewAuxiliary(),
		CreatedAt: createdAt,
	}
}

// Clone - deep copy; the result shares no slices or maps with the receiver.
func (that MatchState) Clone() MatchState {
	clone := that
	clone.Auxiliary = that.Auxiliary.Clone()

	if that.SeatA != nil {
		seat := *that.SeatA
		clone.SeatA = &seat
	}
	if that.SeatB != nil {
		seat := *that.SeatB
		clone.SeatB = &seat
	}

	if that.Moves != nil {
		clone.Moves = append([]MoveRecord(nil), that.Moves...)
	}
	if that.Skills != nil {
		clone.Skills = make([]SkillRecord, len(that.Skills))
		for i, record := range that.Skills {
			if record.Target != nil {
				target := *record.Target
				record.Target = &target
			}
			clone.Skills[i] = record
		}
	}

	return clone
}

func (that MatchState) Occupant(seat Seat) *Occupant {
	if seat == SeatA {
		return that.SeatA
	}
	return that.SeatB
}

// SeatOf - seat held by the participant. AI seats never match a participant id.
func (that MatchState) SeatOf(participantID string) (Seat, bool) {
	if participantID == "" {
		return "", false
	}

	if that.SeatA != nil && !that.SeatA.AI && that.SeatA.ParticipantID == participantID {
		return SeatA, true
	}

	if that.SeatB != nil && !that.SeatB.AI && that.SeatB.ParticipantID == participantID {
		return SeatB, true
	}

	return "", false
}

func (that MatchState) IsParticipant(participantID string) bool {
	_, ok := that.SeatOf(participantID)
	return ok
}

func (that MatchState) IsFull() bool {
	return that.SeatA != nil && that.SeatB != nil
}

func (that MatchState) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that MatchState) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that MatchState) IsFinished() bool {
	return that.Status == StatusFinished
}

// IsAITurn - the match is running and the seat owed the turn is held by the AI.
func (that MatchState) IsAITurn() bool {
	if !that.IsInProgress() {
		return false
	}

	occupant := that.Occupant(that.Turn)

	return occupant != nil && occupant.AI
}

func (that MatchState) ConfirmInProgress() error {
	switch that.Status {
	case StatusInProgress:
		return nil
	case StatusWaiting:
		return apperror.ErrMatchNotStarted
	case StatusFinished:
		return apperror.ErrMatchAlreadyOver
	default:
		return fmt.Errorf("%w: unknown match status %q", apperror.ErrIllegalStateTransition, that.Status)
	}
}

func (that MatchState) Duration() time.Duration {
	if that.StartedAt.IsZero() || that.EndedAt.IsZero() {
		return 0
	}

	return that.EndedAt.Sub(that.StartedAt)
}
