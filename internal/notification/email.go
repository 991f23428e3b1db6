package notification

import (
	"fmt"

	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/edlawit/travel-booking-api/pkg/mailer"
)

// ConfirmationEmail composes the payment-confirmation message sent to the
// payer once a payment settles.
func ConfirmationEmail(from string, payment *models.Payment) mailer.Email {
	booking := payment.Booking

	body := fmt.Sprintf(
		"Dear Customer,\n\n"+
			"Your payment has been successfully processed!\n"+
			"Booking ID: %d\n"+
			"Listing: %s to %s\n"+
			"Start Date: %s\n"+
			"End Date: %s\n\n"+
			"Thank you for choosing us!\n"+
			"If you have any questions, please feel free to reach out.",
		booking.ID,
		booking.Listing.StartLocation,
		booking.Listing.Destination,
		booking.StartDate.Format("2006-01-02"),
		booking.EndDate.Format("2006-01-02"),
	)

	return mailer.Email{
		From:    from,
		To:      payment.Email,
		Subject: fmt.Sprintf("Payment Confirmation - %d", booking.ID),
		Body:    body,
	}
}
