package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateListingRequest struct {
	StartLocation string  `json:"start_location" validate:"required"`
	Destination   string  `json:"destination" validate:"required"`
	TotalPrice    float64 `json:"total_price" validate:"gte=0"`
}

type CreateBookingRequest struct {
	ListingID uint      `json:"listing_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Status    string    `json:"status"`
}

type UpdateBookingRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}

type CreateReviewRequest struct {
	ListingID uint   `json:"listing_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type InitializePaymentRequest struct {
	BookingID   uint            `json:"booking_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency"`
	Email       string          `json:"email" validate:"required,email"`
	FirstName   string          `json:"first_name" validate:"required"`
	LastName    string          `json:"last_name" validate:"required"`
	PhoneNumber string          `json:"phone_number"`
}
