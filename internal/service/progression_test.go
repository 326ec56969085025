package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hint-engine-api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestNextLevelStartsAtOne(t *testing.T) {
	level := nextLevel(models.Session{ID: "s", Level: 1}, true, models.CategoryRuntime, false)
	require.Equal(t, 1, level)
}

func TestNextLevelAdvancesWhileStuck(t *testing.T) {
	session := models.Session{
		ID:            "s",
		Level:         1,
		LastCategory:  models.CategoryRuntime,
		LastVariantID: "v",
		LastScore:     floatPtr(0.2),
	}

	level := nextLevel(session, false, models.CategoryRuntime, false)
	require.Equal(t, 2, level)

	session.Level = 2
	level = nextLevel(session, false, models.CategoryRuntime, false)
	require.Equal(t, 3, level)
}

func TestNextLevelSaturatesAtThree(t *testing.T) {
	session := models.Session{
		ID:           "s",
		Level:        3,
		LastCategory: models.CategoryLogic,
		LastScore:    floatPtr(0.1),
	}

	level := nextLevel(session, false, models.CategoryLogic, false)
	require.Equal(t, 3, level)
}

func TestNextLevelResetsOnCategoryChange(t *testing.T) {
	session := models.Session{
		ID:           "s",
		Level:        3,
		LastCategory: models.CategoryRuntime,
		LastScore:    floatPtr(0.1),
	}

	level := nextLevel(session, false, models.CategoryLogic, false)
	require.Equal(t, 1, level)
}

func TestNextLevelResetsOnImprovement(t *testing.T) {
	session := models.Session{
		ID:           "s",
		Level:        2,
		LastCategory: models.CategoryLogic,
		LastScore:    floatPtr(0.3),
	}

	level := nextLevel(session, false, models.CategoryLogic, true)
	require.Equal(t, 1, level)
}

func TestNextLevelResetsAfterFullScore(t *testing.T) {
	session := models.Session{
		ID:            "s",
		Level:         3,
		LastCategory:  models.CategoryLogic,
		LastScore:     floatPtr(1.0),
		LastFullScore: true,
	}

	level := nextLevel(session, false, models.CategoryLogic, false)
	require.Equal(t, 1, level)
}

func TestNextLevelRawScoreAboveOneIsNotFull(t *testing.T) {
	// A raw grader score (no max_score) has no scale; 5.0 must not read as
	// "solved" and freeze the session at level 1.
	session := models.Session{
		ID:           "s",
		Level:        1,
		LastCategory: models.CategoryRuntime,
		LastScore:    floatPtr(5.0),
	}

	level := nextLevel(session, false, models.CategoryRuntime, false)
	require.Equal(t, 2, level)
}

func TestImprovedScore(t *testing.T) {
	require.True(t, improvedScore(floatPtr(0.2), floatPtr(0.5)))
	require.False(t, improvedScore(floatPtr(0.5), floatPtr(0.5)))
	require.False(t, improvedScore(floatPtr(0.5), floatPtr(0.2)))
	require.False(t, improvedScore(nil, floatPtr(0.5)))
	require.False(t, improvedScore(floatPtr(0.5), nil))
}
