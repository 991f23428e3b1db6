package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/edlawit/travel-booking-api/internal/gateway"
	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/edlawit/travel-booking-api/internal/notification"
	"github.com/edlawit/travel-booking-api/internal/repository"
	"github.com/shopspring/decimal"
)

var ErrPaymentNotFound = errors.New("payment not found")

type InitializePaymentInput struct {
	BookingID   uint
	Amount      decimal.Decimal
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type PaymentService interface {
	// InitializePayment requests a checkout session from the gateway and, only
	// once the gateway has accepted it, persists a pending Payment. It returns
	// the provider-hosted checkout URL.
	InitializePayment(ctx context.Context, in InitializePaymentInput) (string, error)
	// VerifyPayment resolves the current state of the payment identified by
	// txRef. It is safe to call any number of times: a payment already in a
	// terminal state is returned as-is without contacting the gateway, and the
	// confirmation notification is enqueued at most once per payment.
	VerifyPayment(ctx context.Context, txRef string) (models.PaymentStatus, error)
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	ListPayments(ctx context.Context, bookingID *uint) ([]models.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	gateway     gateway.Client
	dispatcher  notification.Dispatcher
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	gw gateway.Client,
	dispatcher notification.Dispatcher,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		gateway:     gw,
		dispatcher:  dispatcher,
	}
}

func (s *paymentService) InitializePayment(ctx context.Context, in InitializePaymentInput) (string, error) {
	booking, err := s.bookingRepo.FindByID(ctx, in.BookingID)
	if err != nil {
		return "", ErrBookingNotFound
	}

	result, err := s.gateway.Initialize(ctx, gateway.InitializeRequest{
		Amount:      in.Amount,
		Currency:    in.Currency,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		// No Payment row exists for a failed initialization.
		return "", fmt.Errorf("initialize payment for booking %d: %w", booking.ID, err)
	}

	payment := &models.Payment{
		BookingID:     booking.ID,
		Amount:        in.Amount,
		Currency:      in.Currency,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		TxRef:         result.TxRef,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return "", fmt.Errorf("persist payment: %w", err)
	}

	return result.CheckoutURL, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, bookingID *uint) ([]models.Payment, error) {
	return s.paymentRepo.FindAll(ctx, bookingID)
}

func (s *paymentService) VerifyPayment(ctx context.Context, txRef string) (models.PaymentStatus, error) {
	payment, err := s.paymentRepo.FindByTxRef(ctx, txRef)
	if err != nil {
		return "", ErrPaymentNotFound
	}

	// Terminal payments are returned as-is: the provider may call back more
	// than once, and clients retry. No gateway call, no re-notification.
	if payment.PaymentStatus.Terminal() {
		return payment.PaymentStatus, nil
	}

	result, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return "", fmt.Errorf("verify payment %s: %w", txRef, err)
	}

	switch result.Status {
	case gateway.VerificationSuccess:
		won, err := s.paymentRepo.UpdateStatusIfPending(ctx, txRef, models.PaymentSuccess)
		if err != nil {
			return "", fmt.Errorf("mark payment %s success: %w", txRef, err)
		}
		// Only the caller that won the pending→success transition enqueues the
		// confirmation; a concurrent verifier that lost simply observes the
		// terminal state.
		if won {
			if err := s.dispatcher.Enqueue(ctx, txRef); err != nil {
				log.Printf("[PaymentService] failed to enqueue confirmation for %s: %v", txRef, err)
			}
		}
		return models.PaymentSuccess, nil

	case gateway.VerificationFailed:
		if _, err := s.paymentRepo.UpdateStatusIfPending(ctx, txRef, models.PaymentDeclined); err != nil {
			return "", fmt.Errorf("mark payment %s declined: %w", txRef, err)
		}
		return models.PaymentDeclined, nil

	default:
		// Still pending at the provider: no state change.
		return models.PaymentPending, nil
	}
}
