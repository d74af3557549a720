package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/models"
)

func seedTaskWithEvaluation(t *testing.T, db *gorm.DB, userID uint) (models.Task, models.Evaluation) {
	t.Helper()

	task := models.Task{UserID: userID, Title: "Add caching layer", Description: "Reduce DB load", Status: models.TaskStatusCompleted}
	require.NoError(t, db.Create(&task).Error)

	evaluation := models.Evaluation{
		TaskID:       task.ID,
		Score:        81,
		Strengths:    datatypes.NewJSONSlice([]string{"clear goal"}),
		Improvements: datatypes.NewJSONSlice([]string{"tighter scope"}),
		FullReport:   "A thorough, actionable task description.",
	}
	require.NoError(t, db.Create(&evaluation).Error)
	return task, evaluation
}

func TestEvaluationRepositoryResolvesOwnershipThroughTask(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	_, evaluation := seedTaskWithEvaluation(t, db, 7)

	found, err := repo.GetByIDForUser(context.Background(), evaluation.ID, 7)
	require.NoError(t, err)
	require.Equal(t, 81, found.Score)
	require.Equal(t, "Add caching layer", found.Task.Title, "task must be preloaded for report rendering")
	require.Equal(t, []string{"clear goal"}, []string(found.Strengths))

	_, err = repo.GetByIDForUser(context.Background(), evaluation.ID, 8)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEvaluationRepositoryListNewestFirstPerOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	task, older := seedTaskWithEvaluation(t, db, 7)
	require.NoError(t, db.Model(&older).Update("created_at", older.CreatedAt.Add(-time.Hour)).Error)

	newer := models.Evaluation{TaskID: task.ID, Score: 90, FullReport: "Second opinion."}
	require.NoError(t, db.Create(&newer).Error)

	seedTaskWithEvaluation(t, db, 8)

	evaluations, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
	require.Equal(t, newer.ID, evaluations[0].ID)
	require.Equal(t, older.ID, evaluations[1].ID)
}

func TestEvaluationRepositoryMarkPaid(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	_, evaluation := seedTaskWithEvaluation(t, db, 7)

	paid, err := repo.MarkPaid(context.Background(), evaluation.ID, 7)
	require.NoError(t, err)
	require.True(t, paid.IsPaid)

	var stored models.Evaluation
	require.NoError(t, db.First(&stored, evaluation.ID).Error)
	require.True(t, stored.IsPaid)
}

func TestEvaluationRepositoryMarkPaidScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	_, evaluation := seedTaskWithEvaluation(t, db, 7)

	_, err := repo.MarkPaid(context.Background(), evaluation.ID, 8)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var stored models.Evaluation
	require.NoError(t, db.First(&stored, evaluation.ID).Error)
	require.False(t, stored.IsPaid)
}

func TestEvaluationRepositoryAllowsMultiplePerTask(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	task, _ := seedTaskWithEvaluation(t, db, 7)

	second := models.Evaluation{TaskID: task.ID, Score: 55, FullReport: "Re-run verdict."}
	require.NoError(t, repo.Create(context.Background(), &second))

	evaluations, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
}
