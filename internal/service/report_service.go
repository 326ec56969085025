package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/hint-engine-api/internal/dto"
	"github.com/noah-isme/hint-engine-api/internal/models"
	"github.com/noah-isme/hint-engine-api/internal/repository"
)

const (
	defaultReportLimit = 20
	maxReportLimit     = 200
)

// TopVariantsQuery filters the operator report. Zero values mean "all".
type TopVariantsQuery struct {
	Category string
	Level    int
	Limit    int
}

// ErrSessionNotFound indicates the requested session has never asked for a hint.
var ErrSessionNotFound = errors.New("session not found")

// ReportService computes read-only views for the operator endpoints.
type ReportService interface {
	TopVariants(ctx context.Context, query TopVariantsQuery) (dto.TopVariantsResponse, error)
	SessionHistory(ctx context.Context, sessionID string) (dto.SessionHistoryResponse, error)
}

type reportService struct {
	learning    repository.LearningRepository
	sessions    repository.SessionRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewReportService builds the report aggregator. cache may be nil; the
// report is then computed from the store on every call.
func NewReportService(learning repository.LearningRepository, sessions repository.SessionRepository, submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		learning:    learning,
		sessions:    sessions,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

// SessionHistory replays a session's attempt log in submission order, so an
// operator can see how the engine walked the learner through the levels.
func (s *reportService) SessionHistory(ctx context.Context, sessionID string) (dto.SessionHistoryResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionHistoryResponse{}, ErrSessionNotFound
		}
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return dto.SessionHistoryResponse{}, fmt.Errorf("load session: %w", ErrStoreUnavailable)
	}

	submissions, err := s.submissions.ListForSession(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to list submissions")
		return dto.SessionHistoryResponse{}, fmt.Errorf("list submissions: %w", ErrStoreUnavailable)
	}

	attempts := make([]dto.AttemptRecord, 0, len(submissions))
	for _, submission := range submissions {
		attempts = append(attempts, dto.AttemptRecord{
			Category:   submission.Category,
			Confidence: submission.Confidence,
			Level:      submission.Level,
			VariantID:  submission.VariantID,
			Score:      submission.Score,
			CreatedAt:  submission.CreatedAt,
		})
	}

	return dto.SessionHistoryResponse{
		SessionID: session.ID,
		Level:     session.Level,
		Attempts:  attempts,
	}, nil
}

func (s *reportService) TopVariants(ctx context.Context, query TopVariantsQuery) (dto.TopVariantsResponse, error) {
	query.Limit = clampLimit(query.Limit)
	cacheKey := fmt.Sprintf("report:top-variants:%s:%d:%d", query.Category, query.Level, query.Limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.TopVariantsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("report cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
		}
	}

	var records []models.LearningRecord
	var err error
	if query.Category != "" && query.Level != 0 {
		records, err = s.learning.ListBucket(ctx, query.Category, query.Level)
	} else {
		records, err = s.learning.ListAll(ctx)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list learning records")
		return dto.TopVariantsResponse{}, fmt.Errorf("list learning records: %w", ErrStoreUnavailable)
	}

	rankings := RankVariants(records)
	rankings = filterRankings(rankings, query)
	response := dto.TopVariantsResponse{Items: rankings}

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store report cache")
			}
		}
	}

	return response, nil
}

// RankVariants is the pure ranking over learning records: grouped per
// (category, level), sorted by improvement rate descending, ties broken by
// shown-count descending, then variant id ascending.
func RankVariants(records []models.LearningRecord) []dto.VariantRanking {
	rankings := make([]dto.VariantRanking, 0, len(records))
	for _, record := range records {
		rankings = append(rankings, dto.VariantRanking{
			Category:  record.Category,
			Level:     record.Level,
			VariantID: record.VariantID,
			Shown:     record.Shown,
			Improved:  record.Improved,
			Rate:      record.ImprovementRate(),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.Rate != b.Rate {
			return a.Rate > b.Rate
		}
		if a.Shown != b.Shown {
			return a.Shown > b.Shown
		}
		return a.VariantID < b.VariantID
	})
	return rankings
}

func filterRankings(rankings []dto.VariantRanking, query TopVariantsQuery) []dto.VariantRanking {
	filtered := make([]dto.VariantRanking, 0, len(rankings))
	for _, ranking := range rankings {
		if query.Category != "" && ranking.Category != query.Category {
			continue
		}
		if query.Level != 0 && ranking.Level != query.Level {
			continue
		}
		filtered = append(filtered, ranking)
		if len(filtered) >= query.Limit {
			break
		}
	}
	return filtered
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultReportLimit
	}
	if limit > maxReportLimit {
		return maxReportLimit
	}
	return limit
}
