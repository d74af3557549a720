package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/models"
)

// TaskRepository exposes ownership-scoped persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByIDForUser(ctx context.Context, id, userID uint) (models.Task, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// NewTaskRepository constructs a task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

type taskRepository struct {
	db *gorm.DB
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByIDForUser(ctx context.Context, id, userID uint) (models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Update("status", status).Error
}
