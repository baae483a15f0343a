package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ReservationSequencer numbers reservation events within their service day.
type ReservationSequencer interface {
	NextReservationSequence(ctx context.Context, date time.Time) (partitionKey string, seq int64, err error)
}

// ReservationPartitionKey groups reservation events by the day they are for,
// so the front desk sees one ordered stream per service day.
func ReservationPartitionKey(date time.Time) string {
	return "reservations:" + date.Format("2006-01-02")
}

// SequenceStore keeps the last issued sequence per partition in event_sequences.
type SequenceStore struct {
	db *sql.DB
}

func NewSequenceStore(db *sql.DB) *SequenceStore {
	return &SequenceStore{db: db}
}

func (s *SequenceStore) NextReservationSequence(ctx context.Context, date time.Time) (string, int64, error) {
	if date.IsZero() {
		return "", 0, errors.New("reservation date is required")
	}
	key := ReservationPartitionKey(date)

	seq, err := s.bump(ctx, key)
	if err != nil {
		return "", 0, err
	}
	return key, seq, nil
}

// bump is a single upsert, so concurrent storefronts never hand out the
// same number for a day.
func (s *SequenceStore) bump(ctx context.Context, partitionKey string) (int64, error) {
	const query = `
INSERT INTO event_sequences (partition_key, last_sequence, updated_at)
VALUES ($1, 1, NOW())
ON CONFLICT (partition_key) DO UPDATE
SET last_sequence = event_sequences.last_sequence + 1,
    updated_at = NOW()
RETURNING last_sequence
`
	var next int64
	if err := s.db.QueryRowContext(ctx, query, partitionKey).Scan(&next); err != nil {
		return 0, fmt.Errorf("bump sequence for %s: %w", partitionKey, err)
	}
	return next, nil
}
