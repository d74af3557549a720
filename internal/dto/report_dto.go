package dto

import (
	"time"

	"github.com/taskscore/taskscore-api/internal/models"
)

const summaryPreviewLength = 100

// ReportSummary is one row in the caller's report history.
type ReportSummary struct {
	ID        uint      `json:"id"`
	TaskTitle string    `json:"task_title"`
	Score     int       `json:"score"`
	Summary   string    `json:"summary"`
	IsPaid    bool      `json:"is_paid"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportDetail is the full report view. Strengths, improvements and the full
// report text are only present once the report has been unlocked.
type ReportDetail struct {
	ID           uint      `json:"id"`
	TaskID       uint      `json:"task_id"`
	TaskTitle    string    `json:"task_title"`
	Score        int       `json:"score"`
	Summary      string    `json:"summary"`
	Strengths    []string  `json:"strengths,omitempty"`
	Improvements []string  `json:"improvements,omitempty"`
	FullReport   string    `json:"full_report,omitempty"`
	IsPaid       bool      `json:"is_paid"`
	Locked       bool      `json:"locked"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReportSummary builds a history row from an evaluation with its task preloaded.
func NewReportSummary(evaluation models.Evaluation) ReportSummary {
	title := evaluation.Task.Title
	if title == "" {
		title = "Untitled task"
	}

	return ReportSummary{
		ID:        evaluation.ID,
		TaskTitle: title,
		Score:     evaluation.Score,
		Summary:   previewText(evaluation.FullReport),
		IsPaid:    evaluation.IsPaid,
		CreatedAt: evaluation.CreatedAt,
	}
}

// NewReportDetail builds the report view, trimming paid-only sections when locked.
func NewReportDetail(evaluation models.Evaluation) ReportDetail {
	title := evaluation.Task.Title
	if title == "" {
		title = "Untitled task"
	}

	detail := ReportDetail{
		ID:        evaluation.ID,
		TaskID:    evaluation.TaskID,
		TaskTitle: title,
		Score:     evaluation.Score,
		Summary:   previewText(evaluation.FullReport),
		IsPaid:    evaluation.IsPaid,
		Locked:    !evaluation.IsPaid,
		CreatedAt: evaluation.CreatedAt,
	}

	if evaluation.IsPaid {
		detail.FullReport = evaluation.FullReport
		detail.Strengths = []string(evaluation.Strengths)
		detail.Improvements = []string(evaluation.Improvements)
		if detail.Strengths == nil {
			detail.Strengths = []string{}
		}
		if detail.Improvements == nil {
			detail.Improvements = []string{}
		}
	}

	return detail
}

func previewText(text string) string {
	if text == "" {
		return "No summary available."
	}
	// Cut on a rune boundary; a byte slice could split a multi-byte character.
	runes := []rune(text)
	if len(runes) <= summaryPreviewLength {
		return text
	}
	return string(runes[:summaryPreviewLength]) + "..."
}
