package dto

import (
	"time"

	"github.com/taskscore/taskscore-api/internal/models"
)

// EvaluationResponse describes a stored AI evaluation.
type EvaluationResponse struct {
	ID           uint      `json:"id"`
	TaskID       uint      `json:"task_id"`
	Score        int       `json:"score"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	FullReport   string    `json:"full_report"`
	IsPaid       bool      `json:"is_paid"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEvaluationResponse converts an Evaluation model into a DTO.
func NewEvaluationResponse(evaluation models.Evaluation) EvaluationResponse {
	strengths := []string(evaluation.Strengths)
	if strengths == nil {
		strengths = []string{}
	}
	improvements := []string(evaluation.Improvements)
	if improvements == nil {
		improvements = []string{}
	}

	return EvaluationResponse{
		ID:           evaluation.ID,
		TaskID:       evaluation.TaskID,
		Score:        evaluation.Score,
		Strengths:    strengths,
		Improvements: improvements,
		FullReport:   evaluation.FullReport,
		IsPaid:       evaluation.IsPaid,
		CreatedAt:    evaluation.CreatedAt,
	}
}
