package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/hint-engine-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Single connection keeps the shared in-memory database visible to all
	// goroutines and serializes writes the way a server-grade store would.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Session{}, &models.Submission{}, &models.LearningRecord{}))
	return db
}

func TestLearningRepositoryGetDefaultsToZeroCounters(t *testing.T) {
	repo := NewLearningRepository(setupTestDB(t))

	record, err := repo.Get(context.Background(), models.CategoryRuntime, 1, "runtime-1-crash-input")
	require.NoError(t, err)
	require.Equal(t, int64(0), record.Shown)
	require.Equal(t, int64(0), record.Improved)
	require.Equal(t, models.CategoryRuntime, record.Category)
}

func TestLearningRepositoryIncrementCreatesAndUpdates(t *testing.T) {
	repo := NewLearningRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, models.CategoryLogic, 2, "logic-2-trace", true))
	require.NoError(t, repo.Increment(ctx, models.CategoryLogic, 2, "logic-2-trace", false))
	require.NoError(t, repo.Increment(ctx, models.CategoryLogic, 2, "logic-2-trace", true))

	record, err := repo.Get(ctx, models.CategoryLogic, 2, "logic-2-trace")
	require.NoError(t, err)
	require.Equal(t, int64(3), record.Shown)
	require.Equal(t, int64(2), record.Improved)
}

func TestLearningRepositoryConcurrentIncrementsLoseNothing(t *testing.T) {
	repo := NewLearningRepository(setupTestDB(t))
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Increment(ctx, models.CategoryRuntime, 1, "runtime-1-crash-input", true)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	record, err := repo.Get(ctx, models.CategoryRuntime, 1, "runtime-1-crash-input")
	require.NoError(t, err)
	require.Equal(t, int64(writers), record.Shown)
	require.Equal(t, int64(writers), record.Improved)
	require.LessOrEqual(t, record.Improved, record.Shown)
}

func TestLearningRepositoryInvariantUnderMixedUpdates(t *testing.T) {
	repo := NewLearningRepository(setupTestDB(t))
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		improved := i%3 == 0
		wg.Add(1)
		go func(improved bool) {
			defer wg.Done()
			_ = repo.Increment(ctx, models.CategoryCompile, 3, "compile-3-walkthrough", improved)
		}(improved)
	}
	wg.Wait()

	record, err := repo.Get(ctx, models.CategoryCompile, 3, "compile-3-walkthrough")
	require.NoError(t, err)
	require.Equal(t, int64(writers), record.Shown)
	require.LessOrEqual(t, record.Improved, record.Shown)
}

func TestLearningRepositoryListBucketIsScopedAndOrdered(t *testing.T) {
	repo := NewLearningRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, models.CategoryLogic, 1, "logic-1-first-failure", false))
	require.NoError(t, repo.Increment(ctx, models.CategoryLogic, 1, "logic-1-edge-cases", true))
	require.NoError(t, repo.Increment(ctx, models.CategoryLogic, 2, "logic-2-trace", true))

	records, err := repo.ListBucket(ctx, models.CategoryLogic, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "logic-1-edge-cases", records[0].VariantID)
	require.Equal(t, "logic-1-first-failure", records[1].VariantID)
}

func TestLearningRepositoryListAllOrdersByKey(t *testing.T) {
	repo := NewLearningRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, models.CategoryRuntime, 2, "runtime-2-pointer-audit", false))
	require.NoError(t, repo.Increment(ctx, models.CategoryCompile, 1, "compile-1-first-error", true))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, models.CategoryCompile, records[0].Category)
	require.Equal(t, models.CategoryRuntime, records[1].Category)
}
