package repository

import (
	"context"

	"github.com/edlawit/travel-booking-api/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByTxRef(ctx context.Context, txRef string) (*models.Payment, error)
	FindAll(ctx context.Context, bookingID *uint) ([]models.Payment, error)
	// UpdateStatusIfPending transitions the payment identified by txRef to the
	// given terminal status only if it is still pending. The returned bool is
	// true when this call won the transition (exactly one row updated), false
	// when another caller got there first.
	UpdateStatusIfPending(ctx context.Context, txRef string, status models.PaymentStatus) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Preload("Booking.Listing").
		Where("tx_ref = ?", txRef).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Booking").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindAll(ctx context.Context, bookingID *uint) ([]models.Payment, error) {
	var payments []models.Payment
	query := r.db.WithContext(ctx).Order("id ASC")
	if bookingID != nil {
		query = query.Where("booking_id = ?", *bookingID)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatusIfPending(ctx context.Context, txRef string, status models.PaymentStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("tx_ref = ? AND payment_status = ?", txRef, models.PaymentPending).
		Update("payment_status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
