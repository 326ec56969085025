package service

import (
	"math/rand"

	"github.com/noah-isme/hint-engine-api/internal/catalog"
	"github.com/noah-isme/hint-engine-api/internal/models"
)

// DefaultEpsilon is the exploration rate used when none is configured.
const DefaultEpsilon = 0.15

// Selector picks one hint variant from a (category, level) bucket using an
// epsilon-greedy policy over empirical improvement rates. It is a documented
// heuristic, not a statistically rigorous bandit: variants that never got
// shown rate as zero and rely on the exploration branch to get sampled.
type Selector struct {
	epsilon   float64
	randFloat func() float64
	randIntn  func(n int) int
}

// NewSelector builds a selector with the given exploration rate. The package
// random source is used; tests swap it via the WithRandom option.
func NewSelector(epsilon float64) *Selector {
	return &Selector{
		epsilon:   epsilon,
		randFloat: rand.Float64,
		randIntn:  rand.Intn,
	}
}

// WithRandom replaces the randomness sources, for deterministic tests.
func (s *Selector) WithRandom(randFloat func() float64, randIntn func(n int) int) *Selector {
	s.randFloat = randFloat
	s.randIntn = randIntn
	return s
}

// Pick chooses a variant among candidates. records maps variant id to its
// learning counters; absent entries read as zero. candidates must be a
// non-empty bucket from the variant bank, already in stable (id) order.
// With epsilon zero, Pick is fully deterministic: highest improvement rate
// wins, ties go to the least-shown variant, then to the lowest variant id.
func (s *Selector) Pick(candidates []catalog.Variant, records map[string]models.LearningRecord) catalog.Variant {
	if len(candidates) == 1 {
		return candidates[0]
	}

	if s.epsilon > 0 && s.randFloat() < s.epsilon {
		return candidates[s.randIntn(len(candidates))]
	}

	best := candidates[0]
	bestRecord := records[best.ID]
	for _, candidate := range candidates[1:] {
		record := records[candidate.ID]
		if better(record, bestRecord) {
			best = candidate
			bestRecord = record
		}
	}
	return best
}

// better reports whether a beats b under the selection ordering. Candidates
// arrive in ascending id order, so a strict comparison keeps the earlier
// (lower id) variant on full ties.
func better(a, b models.LearningRecord) bool {
	rateA, rateB := a.ImprovementRate(), b.ImprovementRate()
	if rateA != rateB {
		return rateA > rateB
	}
	return a.Shown < b.Shown
}
