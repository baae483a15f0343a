package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SuccessMessage = "Reservation request submitted! We'll contact you shortly to confirm."

// Recorder receives every accepted reservation.
type Recorder interface {
	Record(ctx context.Context, r Reservation) error
}

type RecorderFunc func(ctx context.Context, r Reservation) error

func (f RecorderFunc) Record(ctx context.Context, r Reservation) error { return f(ctx, r) }

// Service validates reservation requests and hands accepted ones to its recorders.
type Service struct {
	validator *Validator
	recorders []Recorder
	now       func() time.Time
	timeout   time.Duration
	logger    *zap.Logger
}

type ServiceOption func(*Service)

func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorders = append(s.recorders, r)
		}
	}
}

func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithRecordTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		now:     time.Now,
		timeout: 3 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = NewValidator(s.now)
	return s
}

// Submit validates the request and records it. Validation failures are
// returned as *ValidationError and nothing is recorded. The reservation ID is
// the request's SubmissionID when set, so a retry after a recorder failure
// lands on the rows and messages of the first attempt.
func (s *Service) Submit(ctx context.Context, req Request) (Reservation, error) {
	guests, date, err := s.validator.check(req)
	if err != nil {
		s.logger.Debug("reservation rejected", zap.Error(err))
		return Reservation{}, err
	}

	id := strings.TrimSpace(req.SubmissionID)
	if id == "" {
		id = uuid.NewString()
	}

	res := Reservation{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Guests:      guests,
		Date:        date,
		Time:        strings.TrimSpace(req.Time),
		Message:     strings.TrimSpace(req.Message),
		SubmittedAt: s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, rec := range s.recorders {
		if err := rec.Record(ctx, res); err != nil {
			s.logger.Error("record reservation", zap.String("reservation_id", res.ID), zap.Error(err))
			return Reservation{}, fmt.Errorf("record reservation: %w", err)
		}
	}

	s.logger.Info("reservation submitted",
		zap.String("reservation_id", res.ID),
		zap.String("date", res.Date.Format(DateLayout)),
		zap.String("time", res.Time),
		zap.Int("guests", res.Guests))

	return res, nil
}

// LogRecorder writes accepted reservations to the log.
type LogRecorder struct {
	logger *zap.Logger
}

func NewLogRecorder(l *zap.Logger) *LogRecorder {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogRecorder{logger: l}
}

func (r *LogRecorder) Record(_ context.Context, res Reservation) error {
	r.logger.Info("reservation request",
		zap.String("reservation_id", res.ID),
		zap.String("name", res.Name),
		zap.String("email", res.Email),
		zap.String("phone", res.Phone),
		zap.Int("guests", res.Guests),
		zap.String("date", res.Date.Format(DateLayout)),
		zap.String("time", res.Time),
		zap.String("message", res.Message))
	return nil
}
