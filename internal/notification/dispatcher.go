package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edlawit/travel-booking-api/pkg/rabbitmq"
)

const RoutingKeyPaymentConfirmed = "payment.confirmed"

// PaymentConfirmed is the message published when a payment settles. The
// worker re-reads the Payment at delivery time, so tx_ref is all it needs.
type PaymentConfirmed struct {
	TxRef string `json:"tx_ref"`
}

// Dispatcher schedules asynchronous delivery of a confirmation message for
// the payment identified by txRef. Enqueue must not block on delivery;
// delivery failures surface on the worker's side, never to the caller.
type Dispatcher interface {
	Enqueue(ctx context.Context, txRef string) error
}

type amqpDispatcher struct {
	publisher *rabbitmq.Publisher
}

func NewAMQPDispatcher(publisher *rabbitmq.Publisher) Dispatcher {
	return &amqpDispatcher{publisher: publisher}
}

func (d *amqpDispatcher) Enqueue(ctx context.Context, txRef string) error {
	body, err := json.Marshal(PaymentConfirmed{TxRef: txRef})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := d.publisher.Publish(ctx, RoutingKeyPaymentConfirmed, body); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}
