package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var ErrRecordNotFound = fmt.Errorf("%w: match record not found", apperror.ErrResourceNotFound)

type RecordRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, record entity.MatchRecord) error
	GetByID(ctx context.Context, matchID string) (*entity.MatchRecord, error)
	ListByParticipant(ctx context.Context, participantID string, limit int) ([]entity.MatchRecord, error)
}

// scanner - a *sql.Row or *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const recordColumns = `match_id, seat_a, seat_b, winner, status, moves, skills, started_at, ended_at, duration_ms`

type recordRepository struct {
	conn *sql.DB
}

func NewRecordRepository(conn *sql.DB) RecordRepository {
	return &recordRepository{
		conn: conn,
	}
}

func (that *recordRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS match_records (
		match_id    TEXT PRIMARY KEY,
		seat_a      TEXT NOT NULL DEFAULT '',
		seat_b      TEXT NOT NULL DEFAULT '',
		winner      TEXT NOT NULL,
		status      TEXT NOT NULL,
		moves       JSONB NOT NULL,
		skills      JSONB NOT NULL,
		started_at  TIMESTAMPTZ,
		ended_at    TIMESTAMPTZ,
		duration_ms BIGINT NOT NULL DEFAULT 0
	)`

	if _, err := that.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

// Save - upserts the record of a finished match.
func (that *recordRepository) Save(ctx context.Context, record entity.MatchRecord) error {
	moves, err := json.Marshal(nonNil(record.Moves))
	if err != nil {
		return fmt.Errorf("can't marshal moves: %w", err)
	}

	skills, err := json.Marshal(nonNil(record.Skills))
	if err != nil {
		return fmt.Errorf("can't marshal skills: %w", err)
	}

	query := `INSERT INTO match_records (
			match_id, seat_a, seat_b, winner, status, moves, skills, started_at, ended_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (match_id) DO UPDATE SET
			seat_a = EXCLUDED.seat_a,
			seat_b = EXCLUDED.seat_b,
			winner = EXCLUDED.winner,
			status = EXCLUDED.status,
			moves = EXCLUDED.moves,
			skills = EXCLUDED.skills,
			started_at = EXCLUDED.started_at,
			ended_at = EXCLUDED.ended_at,
			duration_ms = EXCLUDED.duration_ms`

	_, err = that.conn.ExecContext(ctx, query,
		record.MatchID,
		record.SeatA, record.SeatB,
		record.Winner, record.Status,
		string(moves), string(skills),
		nullTime(record.StartedAt), nullTime(record.EndedAt),
		record.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("can't save match record: %w", err)
	}

	return nil
}

func (that *recordRepository) GetByID(ctx context.Context, matchID string) (*entity.MatchRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM match_records WHERE match_id = $1`

	record, err := scanRecord(that.conn.QueryRowContext(ctx, query, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find match record: %w", err)
	}

	return &record, nil
}

// ListByParticipant - finished matches the participant was seated in, most recent first.
func (that *recordRepository) ListByParticipant(ctx context.Context, participantID string, limit int) ([]entity.MatchRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM match_records
		WHERE seat_a = $1 OR seat_b = $1
		ORDER BY ended_at DESC NULLS LAST, match_id
		LIMIT $2`

	rows, err := that.conn.QueryContext(ctx, query, participantID, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list match records: %w", err)
	}
	defer rows.Close()

	records := make([]entity.MatchRecord, 0, limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("can't read match record: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list match records: %w", err)
	}

	return records, nil
}

func scanRecord(row scanner) (entity.MatchRecord, error) {
	var (
		record     entity.MatchRecord
		moves      []byte
		skills     []byte
		startedAt  sql.NullTime
		endedAt    sql.NullTime
		durationMs int64
	)

	err := row.Scan(
		&record.MatchID, &record.SeatA, &record.SeatB, &record.Winner, &record.Status,
		&moves, &skills, &startedAt, &endedAt, &durationMs,
	)
	if err != nil {
		return entity.MatchRecord{}, err
	}

	if err = json.Unmarshal(moves, &record.Moves); err != nil {
		return entity.MatchRecord{}, fmt.Errorf("can't unmarshal moves: %w", err)
	}

	if err = json.Unmarshal(skills, &record.Skills); err != nil {
		return entity.MatchRecord{}, fmt.Errorf("can't unmarshal skills: %w", err)
	}

	record.StartedAt = startedAt.Time
	record.EndedAt = endedAt.Time
	record.Duration = time.Duration(durationMs) * time.Millisecond

	return record, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func nullTime(value time.Time) sql.NullTime {
	return sql.NullTime{Time: value, Valid: !value.IsZero()}
}
