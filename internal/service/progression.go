package service

import "github.com/noah-isme/hint-engine-api/internal/models"

// scoreTolerance guards float comparisons when deciding improvement.
const scoreTolerance = 1e-9

// improvedScore reports whether current strictly exceeds previous. A missing
// score on either side counts as "did not improve": without a comparable pair
// the engine keeps escalating rather than resetting.
func improvedScore(previous, current *float64) bool {
	if previous == nil || current == nil {
		return false
	}
	return *current > *previous+scoreTolerance
}

// nextLevel runs the per-session disclosure state machine. Level starts at 1
// and advances one step (saturating at 3) only while the learner stays on the
// same category without improving. A category change, a score improvement, or
// an already-solved previous attempt resets to the gentlest hint.
func nextLevel(session models.Session, isNew bool, category string, improved bool) int {
	if isNew || session.LastCategory == "" {
		return models.MinLevel
	}
	if session.LastCategory != category || improved || session.FullScore() {
		return models.MinLevel
	}
	level := session.Level + 1
	if level > models.MaxLevel {
		level = models.MaxLevel
	}
	if level < models.MinLevel {
		level = models.MinLevel
	}
	return level
}
