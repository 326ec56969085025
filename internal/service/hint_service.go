package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/hint-engine-api/internal/analyzer"
	"github.com/noah-isme/hint-engine-api/internal/catalog"
	"github.com/noah-isme/hint-engine-api/internal/dto"
	"github.com/noah-isme/hint-engine-api/internal/models"
	"github.com/noah-isme/hint-engine-api/internal/observability"
	"github.com/noah-isme/hint-engine-api/internal/repository"
)

// ErrStoreUnavailable indicates a durable read or write failed. The request
// is retryable by the caller; no learning data is recorded on a failed write.
var ErrStoreUnavailable = errors.New("durable store unavailable")

// HintService turns one submission into a hint and feeds the previous hint's
// outcome back into the learning store.
type HintService interface {
	RequestHint(ctx context.Context, req dto.HintRequest) (dto.HintResponse, error)
}

type hintService struct {
	sessions    repository.SessionRepository
	submissions repository.SubmissionRepository
	learning    repository.LearningRepository
	bank        *catalog.Bank
	selector    *Selector
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewHintService constructs the hint engine service.
func NewHintService(sessions repository.SessionRepository, submissions repository.SubmissionRepository, learning repository.LearningRepository, bank *catalog.Bank, selector *Selector, validate *validator.Validate, logger zerolog.Logger) HintService {
	return &hintService{
		sessions:    sessions,
		submissions: submissions,
		learning:    learning,
		bank:        bank,
		selector:    selector,
		validator:   validate,
		logger:      logger.With().Str("component", "hint_service").Logger(),
	}
}

func (s *hintService) RequestHint(ctx context.Context, req dto.HintRequest) (dto.HintResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.HintResponse{}, err
	}

	if req.Mode == dto.ModeExam {
		return dto.HintResponse{
			Enabled:   false,
			SessionID: req.SessionID,
			HintText:  "Hints are disabled in exam mode.",
		}, nil
	}

	// Classification never fails: unparseable feedback degrades to the
	// generic logic bucket rather than withholding a hint.
	features := analyzer.Extract(req.Source, req.Feedback)
	classification := analyzer.Classify(features)
	score := req.NormalizedScore()

	session, isNew, err := s.loadSession(ctx, req.SessionID)
	if err != nil {
		return dto.HintResponse{}, err
	}

	outcome, err := s.recordFeedback(ctx, session, isNew, score)
	if err != nil {
		return dto.HintResponse{}, err
	}

	improved := outcome != nil && outcome.Improved
	level := nextLevel(session, isNew, classification.Category, improved)

	candidates := s.bank.Variants(classification.Category, level)
	records, err := s.bucketRecords(ctx, classification.Category, level)
	if err != nil {
		return dto.HintResponse{}, err
	}
	chosen := s.selector.Pick(candidates, records)

	submission := models.Submission{
		SessionID:  req.SessionID,
		Source:     req.Source,
		SourceHash: sourceHash(req.Source),
		Feedback:   req.Feedback,
		Features:   datatypes.JSONMap(features.Map()),
		Category:   classification.Category,
		Confidence: classification.Confidence,
		Level:      level,
		VariantID:  chosen.ID,
		HintText:   chosen.Text,
		Score:      score,
	}
	if err := s.submissions.Append(ctx, &submission); err != nil {
		s.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to append submission")
		return dto.HintResponse{}, fmt.Errorf("append submission: %w", ErrStoreUnavailable)
	}

	session.Level = level
	session.LastCategory = classification.Category
	session.LastVariantID = chosen.ID
	session.LastScore = score
	session.LastFullScore = req.FullScore()
	if err := s.sessions.Put(ctx, &session); err != nil {
		s.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to store session")
		return dto.HintResponse{}, fmt.Errorf("store session: %w", ErrStoreUnavailable)
	}

	observability.HintsServed().WithLabelValues(classification.Category, strconv.Itoa(level)).Inc()
	s.logger.Info().
		Str("session_id", req.SessionID).
		Str("category", classification.Category).
		Int("level", level).
		Str("variant_id", chosen.ID).
		Float64("confidence", classification.Confidence).
		Msg("hint selected")

	return dto.HintResponse{
		Enabled:    true,
		SessionID:  req.SessionID,
		Category:   classification.Category,
		Level:      level,
		VariantID:  chosen.ID,
		HintText:   chosen.Text,
		Confidence: classification.Confidence,
		Learning:   outcome,
	}, nil
}

func (s *hintService) loadSession(ctx context.Context, id string) (models.Session, bool, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{ID: id, Level: models.MinLevel}, true, nil
		}
		s.logger.Error().Err(err).Str("session_id", id).Msg("failed to load session")
		return models.Session{}, false, fmt.Errorf("load session: %w", ErrStoreUnavailable)
	}
	return session, false, nil
}

// recordFeedback credits the previously shown variant once the outcome of
// that hint is observable, i.e. when both a prior score and a new score
// exist. The increment targets the previous variant, not the one about to be
// chosen, and is a single atomic store operation.
func (s *hintService) recordFeedback(ctx context.Context, session models.Session, isNew bool, score *float64) (*dto.LearningOutcome, error) {
	if isNew || !session.HasOutcomeBaseline() || score == nil {
		return nil, nil
	}

	improved := improvedScore(session.LastScore, score)
	if err := s.learning.Increment(ctx, session.LastCategory, session.Level, session.LastVariantID, improved); err != nil {
		s.logger.Error().Err(err).
			Str("session_id", session.ID).
			Str("variant_id", session.LastVariantID).
			Msg("failed to update learning record")
		return nil, fmt.Errorf("update learning record: %w", ErrStoreUnavailable)
	}

	observability.LearningUpdates().WithLabelValues(strconv.FormatBool(improved)).Inc()
	return &dto.LearningOutcome{
		VariantID: session.LastVariantID,
		Improved:  improved,
		Delta:     *score - *session.LastScore,
	}, nil
}

func (s *hintService) bucketRecords(ctx context.Context, category string, level int) (map[string]models.LearningRecord, error) {
	records, err := s.learning.ListBucket(ctx, category, level)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Int("level", level).Msg("failed to list learning records")
		return nil, fmt.Errorf("list learning records: %w", ErrStoreUnavailable)
	}

	byID := make(map[string]models.LearningRecord, len(records))
	for _, record := range records {
		byID[record.VariantID] = record
	}
	return byID, nil
}

func sourceHash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:16]
}
