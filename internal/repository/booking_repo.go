package repository

import (
	"context"

	"github.com/edlawit/travel-booking-api/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindAll(ctx context.Context, listingID *uint) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, bookingID uint, status models.BookingStatus) error
	Delete(ctx context.Context, id uint) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Listing").First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, listingID *uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx)
	if listingID != nil {
		q = q.Where("listing_id = ?", *listingID)
	}
	if err := q.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uint, status models.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}

func (r *bookingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, id).Error
}
