package models

import "time"

// TaskStatus enumerates possible task states.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task represents a unit of work submitted by a user for AI scoring.
type Task struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Code        string       `gorm:"type:text" json:"code,omitempty"`
	Status      string       `gorm:"size:32;not null;default:pending" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Evaluations []Evaluation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"evaluations,omitempty"`
}

// IsCompleted reports whether the task has at least one finished evaluation.
func (t Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}
