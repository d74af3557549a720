package models

import (
	"time"

	"gorm.io/datatypes"
)

// Evaluation captures the AI-generated scoring and feedback for a task.
type Evaluation struct {
	ID           uint                         `gorm:"primaryKey" json:"id"`
	TaskID       uint                         `gorm:"not null;index" json:"task_id"`
	Score        int                          `gorm:"not null" json:"score"`
	Strengths    datatypes.JSONSlice[string]  `json:"strengths"`
	Improvements datatypes.JSONSlice[string]  `json:"improvements"`
	FullReport   string                       `gorm:"type:text" json:"full_report"`
	IsPaid       bool                         `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt    time.Time                    `json:"created_at"`
	Task         Task                         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"task"`
}
