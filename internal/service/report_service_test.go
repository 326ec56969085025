package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hint-engine-api/internal/models"
)

func bucketRecord(category string, level int, variantID string, shown, improved int64) models.LearningRecord {
	return models.LearningRecord{Category: category, Level: level, VariantID: variantID, Shown: shown, Improved: improved}
}

func TestRankVariantsOrdering(t *testing.T) {
	records := []models.LearningRecord{
		bucketRecord(models.CategoryRuntime, 1, "runtime-1-crash-input", 10, 2),
		bucketRecord(models.CategoryCompile, 2, "compile-2-line-focus", 4, 3),
		bucketRecord(models.CategoryCompile, 1, "compile-1-first-error", 10, 5),
		bucketRecord(models.CategoryCompile, 1, "compile-1-recent-change", 10, 8),
	}

	rankings := RankVariants(records)
	require.Len(t, rankings, 4)

	// Category asc, level asc, then rate desc inside a bucket.
	require.Equal(t, "compile-1-recent-change", rankings[0].VariantID)
	require.Equal(t, "compile-1-first-error", rankings[1].VariantID)
	require.Equal(t, "compile-2-line-focus", rankings[2].VariantID)
	require.Equal(t, "runtime-1-crash-input", rankings[3].VariantID)
	require.InDelta(t, 0.8, rankings[0].Rate, 1e-9)
}

func TestRankVariantsTieBreaks(t *testing.T) {
	records := []models.LearningRecord{
		bucketRecord(models.CategoryLogic, 1, "logic-1-first-failure", 5, 1),
		bucketRecord(models.CategoryLogic, 1, "logic-1-edge-cases", 10, 2),
	}

	rankings := RankVariants(records)
	// Equal rate: the variant shown more often ranks first.
	require.Equal(t, "logic-1-edge-cases", rankings[0].VariantID)

	records = []models.LearningRecord{
		bucketRecord(models.CategoryLogic, 1, "logic-1-first-failure", 10, 2),
		bucketRecord(models.CategoryLogic, 1, "logic-1-edge-cases", 10, 2),
	}
	rankings = RankVariants(records)
	// Fully tied: variant id ascending keeps the order deterministic.
	require.Equal(t, "logic-1-edge-cases", rankings[0].VariantID)
}

func TestRankVariantsNeverShownRateIsZero(t *testing.T) {
	rankings := RankVariants([]models.LearningRecord{
		bucketRecord(models.CategoryCompile, 3, "compile-3-walkthrough", 0, 0),
	})
	require.Zero(t, rankings[0].Rate)
}

func TestClampLimit(t *testing.T) {
	require.Equal(t, defaultReportLimit, clampLimit(0))
	require.Equal(t, defaultReportLimit, clampLimit(-5))
	require.Equal(t, 1, clampLimit(1))
	require.Equal(t, 150, clampLimit(150))
	require.Equal(t, maxReportLimit, clampLimit(5000))
}

func TestTopVariantsFiltersAndLimits(t *testing.T) {
	learning := newStubLearningRepo()
	learning.records[learningKey(models.CategoryCompile, 1, "compile-1-first-error")] = bucketRecord(models.CategoryCompile, 1, "compile-1-first-error", 10, 5)
	learning.records[learningKey(models.CategoryCompile, 1, "compile-1-recent-change")] = bucketRecord(models.CategoryCompile, 1, "compile-1-recent-change", 10, 9)
	learning.records[learningKey(models.CategoryLogic, 2, "logic-2-trace")] = bucketRecord(models.CategoryLogic, 2, "logic-2-trace", 6, 3)

	svc := NewReportService(learning, newStubSessionRepo(), &stubSubmissionRepo{}, nil, 0, zerolog.Nop())

	resp, err := svc.TopVariants(context.Background(), TopVariantsQuery{Category: models.CategoryCompile, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "compile-1-recent-change", resp.Items[0].VariantID)

	resp, err = svc.TopVariants(context.Background(), TopVariantsQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
}

func TestTopVariantsUsesCache(t *testing.T) {
	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	learning := newStubLearningRepo()
	learning.records[learningKey(models.CategoryRuntime, 1, "runtime-1-crash-input")] = bucketRecord(models.CategoryRuntime, 1, "runtime-1-crash-input", 4, 2)

	svc := NewReportService(learning, newStubSessionRepo(), &stubSubmissionRepo{}, cache, time.Minute, zerolog.Nop())
	ctx := context.Background()

	resp, err := svc.TopVariants(ctx, TopVariantsQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.True(t, server.Exists("report:top-variants::0:20"))

	// A store outage is invisible while the cached report is fresh.
	learning.err = errors.New("connection refused")
	cached, err := svc.TopVariants(ctx, TopVariantsQuery{})
	require.NoError(t, err)
	require.Equal(t, resp, cached)

	server.FastForward(2 * time.Minute)
	_, err = svc.TopVariants(ctx, TopVariantsQuery{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestSessionHistoryReplaysAttempts(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.sessions["s1"] = models.Session{ID: "s1", Level: 2, LastCategory: models.CategoryRuntime}

	score1, score2 := 0.4, 0.2
	submissions := &stubSubmissionRepo{appended: []models.Submission{
		{ID: 1, SessionID: "s1", Category: models.CategoryRuntime, Level: 1, VariantID: "runtime-1-crash-input", Score: &score1},
		{ID: 2, SessionID: "s1", Category: models.CategoryRuntime, Level: 2, VariantID: "runtime-2-pointer-audit", Score: &score2},
		{ID: 3, SessionID: "other", Category: models.CategoryLogic, Level: 1, VariantID: "logic-1-edge-cases"},
	}}

	svc := NewReportService(newStubLearningRepo(), sessions, submissions, nil, 0, zerolog.Nop())

	history, err := svc.SessionHistory(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", history.SessionID)
	require.Equal(t, 2, history.Level)
	require.Len(t, history.Attempts, 2)
	require.Equal(t, "runtime-1-crash-input", history.Attempts[0].VariantID)
	require.Equal(t, "runtime-2-pointer-audit", history.Attempts[1].VariantID)
	require.InDelta(t, 0.2, *history.Attempts[1].Score, 1e-9)
}

func TestSessionHistoryUnknownSession(t *testing.T) {
	svc := NewReportService(newStubLearningRepo(), newStubSessionRepo(), &stubSubmissionRepo{}, nil, 0, zerolog.Nop())

	_, err := svc.SessionHistory(context.Background(), "ghost")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionHistoryStoreError(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.getErr = errors.New("connection refused")
	svc := NewReportService(newStubLearningRepo(), sessions, &stubSubmissionRepo{}, nil, 0, zerolog.Nop())

	_, err := svc.SessionHistory(context.Background(), "s1")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestTopVariantsStoreError(t *testing.T) {
	learning := newStubLearningRepo()
	learning.err = errors.New("connection refused")

	svc := NewReportService(learning, newStubSessionRepo(), &stubSubmissionRepo{}, nil, 0, zerolog.Nop())
	_, err := svc.TopVariants(context.Background(), TopVariantsQuery{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStoreUnavailable))
}
