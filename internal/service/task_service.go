package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/dto"
	"github.com/taskscore/taskscore-api/internal/models"
	"github.com/taskscore/taskscore-api/internal/repository"
)

// TaskService exposes task submission and retrieval operations.
type TaskService interface {
	Create(ctx context.Context, userID uint, payload dto.TaskRequest) (dto.TaskResponse, error)
	Get(ctx context.Context, id, userID uint) (dto.TaskResponse, error)
	List(ctx context.Context, userID uint) ([]dto.TaskResponse, error)
}

type taskService struct {
	tasks     repository.TaskRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewTaskService constructs a task service.
func NewTaskService(taskRepo repository.TaskRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:     taskRepo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) Create(ctx context.Context, userID uint, payload dto.TaskRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	// Title and description get rendered in dashboards, so markup is
	// stripped. Code is stored verbatim; it is always fenced on render.
	task := models.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(s.sanitizer.Sanitize(payload.Title)),
		Description: strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		Code:        payload.Code,
		Status:      models.TaskStatusPending,
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Uint("user_id", userID).Msg("task created")
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Get(ctx context.Context, id, userID uint) (dto.TaskResponse, error) {
	task, err := s.tasks.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) List(ctx context.Context, userID uint) ([]dto.TaskResponse, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.NewTaskResponse(task))
	}
	return responses, nil
}
