package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/edlawit/travel-booking-api/internal/repository"
	"github.com/edlawit/travel-booking-api/pkg/mailer"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDiscard marks a delivery that must not be requeued: a malformed message
// or one whose payment no longer resolves. Failures without this mark are
// transient and the delivery goes back on the queue.
var ErrDiscard = errors.New("notification discarded")

// EmailWorker consumes payment.confirmed messages and sends the confirmation
// e-mail. It runs decoupled from the request path; the verifying HTTP caller
// has long since been answered by the time a delivery is handled here.
type EmailWorker struct {
	paymentRepo repository.PaymentRepository
	mail        mailer.Service
	from        string
}

func NewEmailWorker(paymentRepo repository.PaymentRepository, mail mailer.Service, from string) *EmailWorker {
	return &EmailWorker{
		paymentRepo: paymentRepo,
		mail:        mail,
		from:        from,
	}
}

// Start drains deliveries until the channel closes.
func (w *EmailWorker) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			w.handleMessage(msg)
		}
		log.Println("[EmailWorker] channel closed, stopping worker")
	}()
}

func (w *EmailWorker) handleMessage(msg amqp.Delivery) {
	err := w.Process(context.Background(), msg.Body)
	switch {
	case err == nil:
		msg.Ack(false)
	case errors.Is(err, ErrDiscard):
		log.Printf("[EmailWorker] discarding delivery: %v", err)
		msg.Nack(false, false)
	default:
		log.Printf("[EmailWorker] transient failure, requeueing: %v", err)
		msg.Nack(false, true)
	}
}

// Process resolves the payment behind a delivery and sends the confirmation
// mail. The payment is re-read here rather than carried in the message; the
// enqueue-to-delivery window is eventually consistent.
func (w *EmailWorker) Process(ctx context.Context, body []byte) error {
	var notice PaymentConfirmed
	if err := json.Unmarshal(body, &notice); err != nil {
		return fmt.Errorf("%w: unmarshal: %v", ErrDiscard, err)
	}
	if notice.TxRef == "" {
		return fmt.Errorf("%w: empty tx_ref", ErrDiscard)
	}

	payment, err := w.paymentRepo.FindByTxRef(ctx, notice.TxRef)
	if err != nil {
		return fmt.Errorf("%w: payment %s not found: %v", ErrDiscard, notice.TxRef, err)
	}
	if payment.Booking == nil || payment.Booking.Listing == nil {
		return fmt.Errorf("%w: payment %s has no booking/listing", ErrDiscard, notice.TxRef)
	}

	if err := w.mail.Send(ctx, ConfirmationEmail(w.from, payment)); err != nil {
		return fmt.Errorf("send confirmation for %s: %w", notice.TxRef, err)
	}

	log.Printf("[EmailWorker] sent confirmation for %s to %s", notice.TxRef, payment.Email)
	return nil
}
