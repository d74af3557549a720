package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/dto"
	"github.com/taskscore/taskscore-api/internal/models"
	"github.com/taskscore/taskscore-api/internal/repository"
	"github.com/taskscore/taskscore-api/pkg/ai"
)

// ErrTaskNotFound indicates the task is missing or not owned by the caller.
var ErrTaskNotFound = errors.New("task not found")

// ErrEvaluatorUnavailable indicates no AI provider is configured.
var ErrEvaluatorUnavailable = errors.New("evaluator unavailable")

// ErrModelUnavailable indicates the provider kept failing after all retries.
var ErrModelUnavailable = errors.New("model provider unavailable")

// EvaluationService runs the AI evaluation pipeline for a task.
type EvaluationService interface {
	Evaluate(ctx context.Context, taskID, userID uint) (dto.EvaluationResponse, error)
}

// EvaluationConfig describes retry and deadline knobs for the pipeline.
type EvaluationConfig struct {
	MaxAttempts int
	RetryBase   time.Duration
	Timeout     time.Duration
}

type reportCacheInvalidator interface {
	InvalidateCache(ctx context.Context, userID uint)
}

type evaluationService struct {
	tasks       repository.TaskRepository
	evaluations repository.EvaluationRepository
	generator   ai.TextGenerator
	validator   *validator.Validate
	reports     reportCacheInvalidator
	logger      zerolog.Logger
	config      EvaluationConfig
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewEvaluationService constructs the evaluation pipeline. The generator may
// be nil when no provider is configured; Evaluate then fails before any work.
func NewEvaluationService(taskRepo repository.TaskRepository, evaluationRepo repository.EvaluationRepository, generator ai.TextGenerator, validate *validator.Validate, reports reportCacheInvalidator, logger zerolog.Logger, cfg EvaluationConfig) EvaluationService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &evaluationService{
		tasks:       taskRepo,
		evaluations: evaluationRepo,
		generator:   generator,
		validator:   validate,
		reports:     reports,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		config:      cfg,
		sleep:       sleepContext,
	}
}

// Evaluate loads the caller's task, asks the model to score it, validates the
// answer and persists it as a new Evaluation. Each invocation creates its own
// row; running it twice on the same task yields two evaluations.
func (s *evaluationService) Evaluate(ctx context.Context, taskID, userID uint) (dto.EvaluationResponse, error) {
	if s.generator == nil {
		return dto.EvaluationResponse{}, ErrEvaluatorUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	task, err := s.tasks.GetByIDForUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrTaskNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	prompt := ai.BuildEvaluationPrompt(task.Title, task.Description, task.Code)

	raw, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return dto.EvaluationResponse{}, ctx.Err()
		}
		// A reachable provider that keeps answering with garbage is a
		// malformed-response failure, not an availability one.
		if errors.Is(err, ai.ErrMalformedResponse) {
			return dto.EvaluationResponse{}, err
		}
		return dto.EvaluationResponse{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	result, err := ai.DecodeEvaluation(ai.ExtractJSON(raw), s.validator)
	if err != nil {
		s.logger.Error().Err(err).Uint("task_id", task.ID).Str("raw_output", raw).Msg("model output rejected")
		return dto.EvaluationResponse{}, err
	}

	evaluation := models.Evaluation{
		TaskID:       task.ID,
		Score:        result.Score,
		Strengths:    datatypes.NewJSONSlice(result.Strengths),
		Improvements: datatypes.NewJSONSlice(result.Improvements),
		FullReport:   result.FullReport,
	}

	if err := s.evaluations.Create(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("persist evaluation: %w", err)
	}

	// The evaluation stands even if the status flip fails; readers see a
	// completed report on a task still marked pending.
	if err := s.tasks.UpdateStatus(ctx, task.ID, models.TaskStatusCompleted); err != nil {
		s.logger.Error().Err(err).Uint("task_id", task.ID).Msg("failed to mark task completed")
	}

	if s.reports != nil {
		s.reports.InvalidateCache(ctx, userID)
	}

	return dto.NewEvaluationResponse(evaluation), nil
}

// generateWithRetry performs up to MaxAttempts calls with exponential backoff,
// starting at RetryBase and doubling between attempts. The last failure is the
// one surfaced when all attempts exhaust.
func (s *evaluationService) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := s.config.RetryBase

	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, delay); err != nil {
				return "", err
			}
			delay *= 2
		}

		output, err := s.generator.Generate(ctx, prompt)
		if err == nil {
			return output, nil
		}

		lastErr = err
		s.logger.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", s.config.MaxAttempts).Msg("model call failed")
	}

	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
