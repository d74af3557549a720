package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/models"
)

// EvaluationRepository exposes persistence operations for evaluations.
// Evaluations carry no user id of their own; ownership is resolved through the
// task they belong to, and every read or update here is scoped that way.
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *models.Evaluation) error
	GetByIDForUser(ctx context.Context, id, userID uint) (models.Evaluation, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Evaluation, error)
	MarkPaid(ctx context.Context, id, userID uint) (models.Evaluation, error)
}

// NewEvaluationRepository constructs an evaluation repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

type evaluationRepository struct {
	db *gorm.DB
}

func (r *evaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepository) GetByIDForUser(ctx context.Context, id, userID uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	err := r.ownedByUser(ctx, userID).
		Where("evaluations.id = ?", id).
		Preload("Task").
		First(&evaluation).Error
	if err != nil {
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

func (r *evaluationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	err := r.ownedByUser(ctx, userID).
		Preload("Task").
		Order("evaluations.created_at DESC").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *evaluationRepository) MarkPaid(ctx context.Context, id, userID uint) (models.Evaluation, error) {
	evaluation, err := r.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return models.Evaluation{}, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("id = ?", evaluation.ID).
		Update("is_paid", true).Error; err != nil {
		return models.Evaluation{}, err
	}

	evaluation.IsPaid = true
	return evaluation, nil
}

func (r *evaluationRepository) ownedByUser(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Joins("JOIN tasks ON tasks.id = evaluations.task_id").
		Where("tasks.user_id = ?", userID)
}
