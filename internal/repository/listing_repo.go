package repository

import (
	"context"

	"github.com/edlawit/travel-booking-api/internal/models"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	FindByID(ctx context.Context, id uint) (*models.Listing, error)
	FindAll(ctx context.Context) ([]models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id uint) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Listing{}, id).Error
}
