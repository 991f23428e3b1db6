package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	ListingID uint          `gorm:"not null" json:"listing_id"`
	StartDate time.Time     `gorm:"not null" json:"start_date"`
	EndDate   time.Time     `gorm:"not null" json:"end_date"`
	Status    BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}
