package models

import "time"

type Listing struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StartLocation string    `gorm:"type:varchar(120);not null" json:"start_location"`
	Destination   string    `gorm:"type:varchar(120);not null" json:"destination"`
	TotalPrice    float64   `gorm:"not null" json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Bookings []Booking `gorm:"foreignKey:ListingID" json:"bookings,omitempty"`
	Reviews  []Review  `gorm:"foreignKey:ListingID" json:"reviews,omitempty"`
}
