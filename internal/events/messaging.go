package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange                 = "storefront.events"
	ReservationRequestedRoutingKey = "reservation.requested.v1"
	storefrontServiceName          = "storefront-go"
)

func serviceQueue(serviceName, routingKey string) string {
	return serviceName + "." + routingKey
}

func declareEventsExchange(ch amqpChannel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// StaffQueueName is the queue the front desk consumes reservation requests from.
func StaffQueueName() string {
	return serviceQueue(storefrontServiceName, ReservationRequestedRoutingKey)
}

// declareStaffQueue binds the front-desk queue so requests published before
// anyone consumes are kept.
func declareStaffQueue(ch amqpChannel) error {
	q, err := ch.QueueDeclare(StaffQueueName(), true, false, false, false, nil)
	if err != nil {
		return err
	}
	return ch.QueueBind(q.Name, ReservationRequestedRoutingKey, EventsExchange, false, nil)
}

var _ amqpChannel = (*amqp.Channel)(nil)
