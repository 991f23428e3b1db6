package service

import (
	"context"
	"errors"

	"github.com/edlawit/travel-booking-api/internal/models"
	"github.com/edlawit/travel-booking-api/internal/repository"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

type ReviewService interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id uint) (*models.Review, error)
	ListReviews(ctx context.Context, listingID *uint) ([]models.Review, error)
	UpdateReview(ctx context.Context, id uint, update *models.Review) (*models.Review, error)
	DeleteReview(ctx context.Context, id uint) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, listingRepo repository.ListingRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}

	if _, err := s.listingRepo.FindByID(ctx, review.ListingID); err != nil {
		return ErrListingNotFound
	}

	return s.reviewRepo.Create(ctx, review)
}

func (s *reviewService) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, listingID *uint) ([]models.Review, error) {
	return s.reviewRepo.FindAll(ctx, listingID)
}

func (s *reviewService) UpdateReview(ctx context.Context, id uint, update *models.Review) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	if update.Rating != 0 {
		if update.Rating < 1 || update.Rating > 5 {
			return nil, ErrInvalidRating
		}
		review.Rating = update.Rating
	}
	if update.Comment != "" {
		review.Comment = update.Comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id uint) error {
	if _, err := s.reviewRepo.FindByID(ctx, id); err != nil {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(ctx, id)
}
