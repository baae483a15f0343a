package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Recorder
	ListByDate(ctx context.Context, date time.Time) ([]Reservation, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

// Record inserts the reservation. Recording an ID that already exists is a
// no-op so retried submissions stay single rows.
func (r *repo) Record(ctx context.Context, res Reservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	const insertSQL = `
INSERT INTO reservations (id, name, email, phone, guests, reservation_date, reservation_time, message, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING
`
	_, err := r.db.ExecContext(ctx, insertSQL,
		res.ID, res.Name, res.Email, res.Phone, res.Guests,
		res.Date.Format(DateLayout), res.Time, res.Message, res.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *repo) ListByDate(ctx context.Context, date time.Time) ([]Reservation, error) {
	const query = `
SELECT id, name, email, phone, guests, reservation_time, message, submitted_at
FROM reservations
WHERE reservation_date = $1
ORDER BY reservation_time, submitted_at
`
	rows, err := r.db.QueryContext(ctx, query, date.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		res := Reservation{Date: date}
		if err := rows.Scan(&res.ID, &res.Name, &res.Email, &res.Phone, &res.Guests, &res.Time, &res.Message, &res.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
