package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/dto"
	"github.com/taskscore/taskscore-api/internal/models"
	"github.com/taskscore/taskscore-api/internal/repository"
)

// ErrPaymentNotFound indicates the payment is missing or not owned by the caller.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrReportAlreadyUnlocked indicates the evaluation is already paid for.
var ErrReportAlreadyUnlocked = errors.New("report is already unlocked")

// ErrPaymentSettled indicates the payment was already verified.
var ErrPaymentSettled = errors.New("payment already settled")

// ErrUnlockFailed indicates a verified payment could not flip the report's paid flag.
var ErrUnlockFailed = errors.New("payment verified but report unlock failed")

// PaymentConfig holds the fixed price of a report unlock.
type PaymentConfig struct {
	Amount   int
	Currency string
}

// PaymentService runs the simulated checkout flow for report unlocks.
type PaymentService interface {
	Create(ctx context.Context, userID uint, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error)
	Verify(ctx context.Context, userID, paymentID uint, success bool) (dto.PaymentVerifyResponse, error)
}

type paymentService struct {
	payments    repository.PaymentRepository
	evaluations repository.EvaluationRepository
	reports     reportCacheInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	config      PaymentConfig
}

// NewPaymentService constructs a payment service.
func NewPaymentService(paymentRepo repository.PaymentRepository, evaluationRepo repository.EvaluationRepository, reports reportCacheInvalidator, validate *validator.Validate, logger zerolog.Logger, cfg PaymentConfig) PaymentService {
	if cfg.Amount <= 0 {
		cfg.Amount = 99
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}

	return &paymentService{
		payments:    paymentRepo,
		evaluations: evaluationRepo,
		reports:     reports,
		validator:   validate,
		logger:      logger.With().Str("component", "payment_service").Logger(),
		config:      cfg,
	}
}

func (s *paymentService) Create(ctx context.Context, userID uint, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	evaluation, err := s.evaluations.GetByIDForUser(ctx, payload.EvaluationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrReportNotFound
		}
		return dto.PaymentResponse{}, err
	}

	if evaluation.IsPaid {
		return dto.PaymentResponse{}, ErrReportAlreadyUnlocked
	}

	payment := models.Payment{
		EvaluationID:      evaluation.ID,
		UserID:            userID,
		Amount:            s.config.Amount,
		Currency:          s.config.Currency,
		Status:            models.PaymentStatusPending,
		ProviderSessionID: fmt.Sprintf("demo_sess_%s", uuid.NewString()),
	}

	if err := s.payments.Create(ctx, &payment); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().Uint("payment_id", payment.ID).Uint("evaluation_id", evaluation.ID).Msg("payment session created")
	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) Verify(ctx context.Context, userID, paymentID uint, success bool) (dto.PaymentVerifyResponse, error) {
	payment, err := s.payments.GetByIDForUser(ctx, paymentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentVerifyResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentVerifyResponse{}, err
	}

	if payment.IsSettled() {
		return dto.PaymentVerifyResponse{}, ErrPaymentSettled
	}

	payment.Status = models.PaymentStatusFailed
	if success {
		payment.Status = models.PaymentStatusSuccess
	}

	if err := s.payments.Update(ctx, &payment); err != nil {
		return dto.PaymentVerifyResponse{}, err
	}

	response := dto.PaymentVerifyResponse{
		PaymentID:    payment.ID,
		EvaluationID: payment.EvaluationID,
		Status:       payment.Status,
	}

	if !success {
		return response, nil
	}

	evaluation, err := s.evaluations.MarkPaid(ctx, payment.EvaluationID, userID)
	if err != nil {
		// The payment stays recorded as success; the caller retries the
		// unlock rather than paying again.
		s.logger.Error().Err(err).Uint("payment_id", payment.ID).Uint("evaluation_id", payment.EvaluationID).Msg("unlock after payment failed")
		return dto.PaymentVerifyResponse{}, fmt.Errorf("%w: %v", ErrUnlockFailed, err)
	}

	if s.reports != nil {
		s.reports.InvalidateCache(ctx, userID)
	}

	evaluationResponse := dto.NewEvaluationResponse(evaluation)
	response.Unlocked = true
	response.Evaluation = &evaluationResponse
	return response, nil
}
