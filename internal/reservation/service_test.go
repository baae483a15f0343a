package reservation

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRecorder struct {
	recorded []Reservation
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, r Reservation) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline on the record context")
	}
	f.recorded = append(f.recorded, r)
	return nil
}

func TestSubmitRecordsAcceptedReservation(t *testing.T) {
	first, second := &fakeRecorder{}, &fakeRecorder{}
	svc := NewService(
		WithRecorder(first),
		WithRecorder(second),
		WithServiceClock(func() time.Time { return fixedNow }),
	)

	req := validRequest()
	req.Name = "  Asha Rao "
	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "Asha Rao", res.Name)
	assert.Equal(t, 4, res.Guests)
	assert.Equal(t, "2026-10-25", res.Date.Format(DateLayout))
	assert.Equal(t, fixedNow.UTC(), res.SubmittedAt)

	require.Len(t, first.recorded, 1)
	require.Len(t, second.recorded, 1)
	assert.Equal(t, res, first.recorded[0])
}

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(WithRecorder(rec), WithServiceClock(func() time.Time { return fixedNow }))

	req := validRequest()
	req.Guests = "25"
	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, RuleGuests, verr.Rule)
	assert.Empty(t, rec.recorded)
}

func TestSubmitSurfacesRecorderError(t *testing.T) {
	failing := RecorderFunc(func(context.Context, Reservation) error { return errors.New("db down") })
	after := &fakeRecorder{}
	svc := NewService(
		WithRecorder(failing),
		WithRecorder(after),
		WithServiceClock(func() time.Time { return fixedNow }),
	)

	_, err := svc.Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.Empty(t, after.recorded)
}

func TestLogRecorder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rec := NewLogRecorder(zap.New(core))
	svc := NewService(WithRecorder(rec), WithServiceClock(func() time.Time { return fixedNow }))

	res, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	entries := logs.FilterMessage("reservation request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, res.ID, fields["reservation_id"])
	assert.Equal(t, int64(4), fields["guests"])
	assert.Equal(t, "2026-10-25", fields["date"])
}

func TestSubmitUsesSubmissionID(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(WithRecorder(rec), WithServiceClock(func() time.Time { return fixedNow }))

	req := validRequest()
	req.SubmissionID = "9a1c3f2e-0b7d-4c55-8f3e-6d2b1a0c9e77"
	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.SubmissionID, res.ID)

	other, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, res.ID, other.ID, "requests without a submission id get fresh ids")
}

func TestRetryAfterLaterRecorderFailsKeepsOneRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	brokerDown := true
	publish := RecorderFunc(func(context.Context, Reservation) error {
		if brokerDown {
			return errors.New("broker down")
		}
		return nil
	})
	svc := NewService(
		WithRecorder(NewRepository(db)),
		WithRecorder(publish),
		WithServiceClock(func() time.Time { return fixedNow }),
	)

	req := validRequest()
	req.SubmissionID = "9a1c3f2e-0b7d-4c55-8f3e-6d2b1a0c9e77"

	insert := regexp.QuoteMeta(`ON CONFLICT (id) DO NOTHING`)
	for i := 0; i < 3; i++ {
		mock.ExpectExec(insert).
			WithArgs(req.SubmissionID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), "2026-10-25", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), req)
		require.ErrorContains(t, err, "broker down")
	}

	brokerDown = false
	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.SubmissionID, res.ID)

	// every attempt targets the same row and the insert ignores existing ids
	require.NoError(t, mock.ExpectationsWereMet())
}
