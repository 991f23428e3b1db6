package service

import (
	"context"
	"errors"

	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/edlawit/travel-booking-api/internal/repository"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingService interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id uint) (*models.Listing, error)
	ListListings(ctx context.Context) ([]models.Listing, error)
	UpdateListing(ctx context.Context, id uint, update *models.Listing) (*models.Listing, error)
	DeleteListing(ctx context.Context, id uint) error
}

type listingService struct {
	repo repository.ListingRepository
}

func NewListingService(repo repository.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

func (s *listingService) CreateListing(ctx context.Context, listing *models.Listing) error {
	return s.repo.Create(ctx, listing)
}

func (s *listingService) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

func (s *listingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	return s.repo.FindAll(ctx)
}

func (s *listingService) UpdateListing(ctx context.Context, id uint, update *models.Listing) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrListingNotFound
	}

	listing.StartLocation = update.StartLocation
	listing.Destination = update.Destination
	listing.TotalPrice = update.TotalPrice

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) DeleteListing(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrListingNotFound
	}
	return s.repo.Delete(ctx, id)
}
