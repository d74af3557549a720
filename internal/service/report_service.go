package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/dto"
	"github.com/taskscore/taskscore-api/internal/repository"
)

// ErrReportNotFound indicates the evaluation is missing or not owned by the caller.
var ErrReportNotFound = errors.New("report not found")

// ReportService exposes the caller's evaluation reports and the unlock operation.
type ReportService interface {
	List(ctx context.Context, userID uint) ([]dto.ReportSummary, error)
	Get(ctx context.Context, id, userID uint) (dto.ReportDetail, error)
	Unlock(ctx context.Context, id, userID uint) (dto.ReportDetail, error)
	InvalidateCache(ctx context.Context, userID uint)
}

type reportService struct {
	evaluations repository.EvaluationRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewReportService constructs a report service. The cache client may be nil.
func NewReportService(evaluationRepo repository.EvaluationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		evaluations: evaluationRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) List(ctx context.Context, userID uint) ([]dto.ReportSummary, error) {
	cacheKey := reportCacheKey(userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var summaries []dto.ReportSummary
			if unmarshalErr := json.Unmarshal([]byte(cached), &summaries); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", userID).Msg("report list cache hit")
				return summaries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
		}
	}

	evaluations, err := s.evaluations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ReportSummary, 0, len(evaluations))
	for _, evaluation := range evaluations {
		summaries = append(summaries, dto.NewReportSummary(evaluation))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summaries); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store report cache")
			}
		}
	}

	return summaries, nil
}

func (s *reportService) Get(ctx context.Context, id, userID uint) (dto.ReportDetail, error) {
	evaluation, err := s.evaluations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportDetail{}, ErrReportNotFound
		}
		return dto.ReportDetail{}, err
	}
	return dto.NewReportDetail(evaluation), nil
}

func (s *reportService) Unlock(ctx context.Context, id, userID uint) (dto.ReportDetail, error) {
	evaluation, err := s.evaluations.MarkPaid(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportDetail{}, ErrReportNotFound
		}
		return dto.ReportDetail{}, err
	}

	s.InvalidateCache(ctx, userID)
	s.logger.Info().Uint("evaluation_id", id).Uint("user_id", userID).Msg("report unlocked")
	return dto.NewReportDetail(evaluation), nil
}

func (s *reportService) InvalidateCache(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, reportCacheKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate report cache")
	}
}

func reportCacheKey(userID uint) string {
	return fmt.Sprintf("reports:user:%d", userID)
}
