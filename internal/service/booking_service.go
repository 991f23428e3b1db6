package service

import (
	"context"
	"errors"

	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/edlawit/travel-booking-api/internal/repository"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidDateRange = errors.New("end_date must be after start_date")
)

type BookingService interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, listingID *uint) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, update *models.Booking) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uint) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id uint) error
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
}

func NewBookingService(bookingRepo repository.BookingRepository, listingRepo repository.ListingRepository) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	// A booking must reference an existing listing
	if _, err := s.listingRepo.FindByID(ctx, booking.ListingID); err != nil {
		return ErrListingNotFound
	}

	if !booking.EndDate.After(booking.StartDate) {
		return ErrInvalidDateRange
	}

	if booking.Status == "" {
		booking.Status = models.BookingPending
	}

	return s.bookingRepo.Create(ctx, booking)
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, listingID *uint) ([]models.Booking, error) {
	return s.bookingRepo.FindAll(ctx, listingID)
}

func (s *bookingService) UpdateBooking(ctx context.Context, id uint, update *models.Booking) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	if !update.StartDate.IsZero() {
		booking.StartDate = update.StartDate
	}
	if !update.EndDate.IsZero() {
		booking.EndDate = update.EndDate
	}
	if !booking.EndDate.After(booking.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if update.Status != "" {
		booking.Status = update.Status
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	if booking.Status == models.BookingCancelled {
		return nil, errors.New("booking is already cancelled")
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, models.BookingCancelled); err != nil {
		return nil, err
	}

	booking.Status = models.BookingCancelled
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, id uint) error {
	if _, err := s.bookingRepo.FindByID(ctx, id); err != nil {
		return ErrBookingNotFound
	}
	return s.bookingRepo.Delete(ctx, id)
}
