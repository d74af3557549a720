package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/models"
)

// PaymentRepository exposes ownership-scoped persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByIDForUser(ctx context.Context, id, userID uint) (models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
}

// NewPaymentRepository constructs a payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

type paymentRepository struct {
	db *gorm.DB
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByIDForUser(ctx context.Context, id, userID uint) (models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&payment).Error
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
