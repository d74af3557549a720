package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/taskscore/taskscore-api/internal/service"
	"github.com/taskscore/taskscore-api/internal/utils"
	"github.com/taskscore/taskscore-api/pkg/ai"
)

// EvaluationHandler exposes the AI evaluation endpoint.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires the handler endpoints into the tasks router group.
func (h *EvaluationHandler) Register(router fiber.Router, limit fiber.Handler) {
	if limit != nil {
		router.Post("/:id/evaluate", limit, h.evaluate)
		return
	}
	router.Post("/:id/evaluate", h.evaluate)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.service.Evaluate(c.Context(), id, userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task evaluated", response)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var invalidResult *ai.InvalidResultError
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEvaluatorUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "evaluator unavailable")
	case errors.Is(err, service.ErrModelUnavailable):
		h.logger.Error().Err(err).Msg("model provider kept failing")
		return utils.SendError(c, fiber.StatusBadGateway, "model provider error")
	case errors.Is(err, ai.ErrMalformedResponse):
		h.logger.Error().Err(err).Msg("model produced unparseable output")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to parse model response")
	case errors.As(err, &invalidResult):
		h.logger.Error().Err(err).Msg("model produced schema-invalid output")
		return utils.SendError(c, fiber.StatusInternalServerError, invalidResult.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return utils.SendError(c, fiber.StatusGatewayTimeout, "evaluation timed out")
	default:
		h.logger.Error().Err(err).Msg("evaluation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
