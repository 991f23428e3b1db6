package dto

import (
	"encoding/json"
	"time"

	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/shopspring/decimal"
)

type ListingResponse struct {
	ID            uint      `json:"id"`
	StartLocation string    `json:"start_location"`
	Destination   string    `json:"destination"`
	TotalPrice    float64   `json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingResponse struct {
	ID        uint                 `json:"id"`
	ListingID uint                 `json:"listing_id"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
	Status    models.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type ReviewResponse struct {
	ID        uint      `json:"id"`
	ListingID uint      `json:"listing_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentResponse struct {
	ID            uint                 `json:"id"`
	BookingID     uint                 `json:"booking_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      string               `json:"currency"`
	Email         string               `json:"email"`
	TxRef         string               `json:"tx_ref"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type VerifyPaymentResponse struct {
	Message string               `json:"message"`
	Status  models.PaymentStatus `json:"status"`
}

type ErrorResponse struct {
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func ToListingResponse(l *models.Listing) ListingResponse {
	return ListingResponse{
		ID:            l.ID,
		StartLocation: l.StartLocation,
		Destination:   l.Destination,
		TotalPrice:    l.TotalPrice,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		ListingID: b.ListingID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func ToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ListingID: r.ListingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func ToPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Email:         p.Email,
		TxRef:         p.TxRef,
		PaymentStatus: p.PaymentStatus,
		CreatedAt:     p.CreatedAt,
	}
}
