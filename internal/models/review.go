package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null" json:"listing_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}
