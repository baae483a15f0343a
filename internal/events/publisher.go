package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/reservation"
)

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// ReservationPublisher announces accepted reservations to the front desk.
// It implements reservation.Recorder.
type ReservationPublisher struct {
	ch        amqpChannel
	sequences ReservationSequencer
	producer  string
	logger    *zap.Logger
}

func NewReservationPublisher(conn *amqp.Connection, sequences ReservationSequencer, logger *zap.Logger) (*ReservationPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return newReservationPublisher(ch, sequences, logger)
}

func newReservationPublisher(ch amqpChannel, sequences ReservationSequencer, logger *zap.Logger) (*ReservationPublisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	if err := declareStaffQueue(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare staff queue: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReservationPublisher{
		ch:        ch,
		sequences: sequences,
		producer:  StorefrontProducer,
		logger:    logger,
	}, nil
}

func (p *ReservationPublisher) Close() error {
	return p.ch.Close()
}

func (p *ReservationPublisher) Record(ctx context.Context, r reservation.Reservation) error {
	partitionKey, seq, err := p.sequences.NextReservationSequence(ctx, r.Date)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := BuildReservationRequestedEvent(r, EnvelopeOptions{
		PartitionKey: partitionKey,
		Sequence:     seq,
		Producer:     p.producer,
	})
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal ReservationRequested envelope: %w", err)
	}

	if err := p.publishJSON(ctx, ReservationRequestedRoutingKey, env.EventID, body); err != nil {
		return fmt.Errorf("publish ReservationRequested: %w", err)
	}

	p.logger.Debug("reservation event published",
		zap.String("event_id", env.EventID),
		zap.String("partition_key", partitionKey),
		zap.Int64("sequence", seq))
	return nil
}

func (p *ReservationPublisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
