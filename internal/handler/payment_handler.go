package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/taskscore/taskscore-api/internal/dto"
	"github.com/taskscore/taskscore-api/internal/service"
	"github.com/taskscore/taskscore-api/internal/utils"
)

// PaymentHandler exposes the simulated checkout endpoints.
type PaymentHandler struct {
	service   service.PaymentService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(service service.PaymentService, validator *validator.Validate, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Post("/:id/verify", h.verify)
}

func (h *PaymentHandler) create(c *fiber.Ctx) error {
	var payload dto.PaymentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.service.Create(c.Context(), userID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "payment session created", response)
}

func (h *PaymentHandler) verify(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.PaymentVerifyRequest
	if err := c.BodyParser(&payload); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.service.Verify(c.Context(), userID, id, payload.Succeeded())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "payment verified", response)
}

func (h *PaymentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrPaymentNotFound), errors.Is(err, service.ErrReportNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrReportAlreadyUnlocked), errors.Is(err, service.ErrPaymentSettled):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnlockFailed):
		h.logger.Error().Err(err).Msg("unlock after verified payment failed")
		return utils.SendError(c, fiber.StatusInternalServerError, service.ErrUnlockFailed.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("payment operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
