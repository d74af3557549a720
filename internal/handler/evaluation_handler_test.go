package handler_test

import (
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/taskscore/taskscore-api/internal/dto"
	"github.com/taskscore/taskscore-api/internal/models"
)

const handlerModelOutput = `{"score":77,"strengths":["specific"],"improvements":["add examples"],"full_report":"Solid overall."}`

func seedTask(t *testing.T, app *fiber.App) dto.TaskResponse {
	t.Helper()

	resp := postJSON(t, app, "/api/v1/tasks", dto.TaskRequest{
		Title:       "Build rate limiter",
		Description: "Token bucket per user with burst support",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.TaskResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)
	return created.Data
}

func evaluatePath(id uint) string {
	return "/api/v1/tasks/" + strconv.FormatUint(uint64(id), 10) + "/evaluate"
}

func TestEvaluationHandlerCreatesReport(t *testing.T) {
	app, db := setupApp(t, &testGenerator{output: handlerModelOutput})
	task := seedTask(t, app)

	resp, err := app.Test(httptest.NewRequest("POST", evaluatePath(task.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var evaluated struct {
		Success bool                   `json:"success"`
		Data    dto.EvaluationResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &evaluated)
	require.True(t, evaluated.Success)
	require.Equal(t, "task evaluated", evaluated.Message)
	require.Equal(t, 77, evaluated.Data.Score)
	require.Equal(t, task.ID, evaluated.Data.TaskID)
	require.False(t, evaluated.Data.IsPaid)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	require.Equal(t, models.TaskStatusCompleted, stored.Status)
}

func TestEvaluationHandlerUnknownTask(t *testing.T) {
	app, _ := setupApp(t, &testGenerator{output: handlerModelOutput})

	resp, err := app.Test(httptest.NewRequest("POST", evaluatePath(42), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEvaluationHandlerNoProviderConfigured(t *testing.T) {
	app, _ := setupApp(t, nil)
	task := seedTask(t, app)

	resp, err := app.Test(httptest.NewRequest("POST", evaluatePath(task.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestEvaluationHandlerProviderKeepsFailing(t *testing.T) {
	app, _ := setupApp(t, &testGenerator{err: errors.New("provider exploded")})
	task := seedTask(t, app)

	// Retries back off for 1.5s in total before giving up.
	resp, err := app.Test(httptest.NewRequest("POST", evaluatePath(task.ID), nil), 10_000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var failed struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &failed)
	require.False(t, failed.Success)
	require.Equal(t, "model provider error", failed.Message)
}

func TestEvaluationHandlerUnparseableModelOutput(t *testing.T) {
	app, _ := setupApp(t, &testGenerator{output: "no json here at all"})
	task := seedTask(t, app)

	resp, err := app.Test(httptest.NewRequest("POST", evaluatePath(task.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var failed struct {
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &failed)
	require.Equal(t, "failed to parse model response", failed.Message)
}
