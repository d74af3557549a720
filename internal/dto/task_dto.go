package dto

import (
	"time"

	"github.com/taskscore/taskscore-api/internal/models"
)

// TaskRequest represents the payload for submitting a task.
type TaskRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"required,min=10"`
	Code        string `json:"code" validate:"omitempty,max=65535"`
}

// TaskResponse represents a task to API consumers.
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTaskResponse builds a response DTO from a model.
func NewTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Code:        task.Code,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
	}
}
