package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/reservation"
)

const (
	ReservationRequestedEventName    = "ReservationRequested"
	ReservationRequestedEventVersion = 1
	ReservationRequestedSchemaPath   = "contracts/events/reservation/ReservationRequested.v1.enveloped.schema.json"
	StorefrontProducer               = "storefront"
)

type EventEnvelope struct {
	EventName     string                      `json:"eventName"`
	EventVersion  int                         `json:"eventVersion"`
	EventID       string                      `json:"eventId"`
	CorrelationID string                      `json:"correlationId,omitempty"`
	CausationID   string                      `json:"causationId,omitempty"`
	Producer      string                      `json:"producer"`
	PartitionKey  string                      `json:"partitionKey"`
	Sequence      int64                       `json:"sequence"`
	OccurredAt    time.Time                   `json:"occurredAt"`
	Schema        string                      `json:"schema"`
	Payload       ReservationRequestedPayload `json:"payload"`
}

type ReservationRequestedPayload struct {
	ReservationID string    `json:"reservationId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Guests        int       `json:"guests"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Message       string    `json:"message,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

func BuildReservationRequestedEvent(r reservation.Reservation, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = ReservationRequestedSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = StorefrontProducer
	}

	partitionKey := opts.PartitionKey
	if partitionKey == "" {
		partitionKey = ReservationPartitionKey(r.Date)
	}

	// reservation id doubles as correlation id so the desk can trace replies
	correlationID := opts.CorrelationID
	if correlationID == "" {
		correlationID = r.ID
	}

	return EventEnvelope{
		EventName:     ReservationRequestedEventName,
		EventVersion:  ReservationRequestedEventVersion,
		EventID:       eventID,
		CorrelationID: correlationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload: ReservationRequestedPayload{
			ReservationID: r.ID,
			Name:          r.Name,
			Email:         r.Email,
			Phone:         r.Phone,
			Guests:        r.Guests,
			Date:          r.Date.Format(reservation.DateLayout),
			Time:          r.Time,
			Message:       r.Message,
			SubmittedAt:   r.SubmittedAt,
		},
	}
}
