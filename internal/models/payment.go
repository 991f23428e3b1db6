package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentDeclined PaymentStatus = "declined"
)

// Terminal reports whether no further status transition is permitted.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentDeclined
}

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BookingID     uint            `gorm:"not null" json:"booking_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(10);not null" json:"currency"`
	Email         string          `gorm:"type:varchar(254);not null" json:"email"`
	PhoneNumber   string          `gorm:"type:varchar(30)" json:"phone_number"`
	TxRef         string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"tx_ref"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}
