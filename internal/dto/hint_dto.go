package dto

// Request modes. Exam mode disables hints without touching engine state.
const (
	ModeTraining = "training"
	ModeExam     = "exam"
)

// HintRequest represents one code+feedback payload asking for a hint.
// Score/MaxScore carry the grader's numeric result for this submission;
// Passed is the pass/fail alternative when no numeric score exists.
type HintRequest struct {
	SessionID string   `json:"session_id" validate:"required,min=1,max=128"`
	Mode      string   `json:"mode" validate:"omitempty,oneof=training exam"`
	Source    string   `json:"source"`
	Feedback  string   `json:"feedback"`
	Score     *float64 `json:"score" validate:"omitempty,gte=0"`
	MaxScore  *float64 `json:"max_score" validate:"omitempty,gt=0"`
	Passed    *bool    `json:"passed"`
}

// NormalizedScore reduces the request's score fields to one scalar: numeric
// scores become a ratio of max score when one is given, pass/fail maps to
// 1.0 or 0.0, and absence of any score yields nil.
func (r HintRequest) NormalizedScore() *float64 {
	if r.Score != nil {
		value := *r.Score
		if r.MaxScore != nil && *r.MaxScore > 0 {
			value = value / *r.MaxScore
			if value < 0 {
				value = 0
			}
			if value > 1 {
				value = 1
			}
		}
		return &value
	}
	if r.Passed != nil {
		value := 0.0
		if *r.Passed {
			value = 1.0
		}
		return &value
	}
	return nil
}

// FullScore reports whether the score fields describe an already-solved
// problem. Only a score with a known scale qualifies: score/max_score at
// (or within rounding of) 1, or an explicit pass. A raw score without
// max_score says nothing about how close to full it is.
func (r HintRequest) FullScore() bool {
	switch {
	case r.Score != nil && r.MaxScore != nil && *r.MaxScore > 0:
		return *r.Score / *r.MaxScore >= 0.999
	case r.Score != nil:
		return false
	case r.Passed != nil:
		return *r.Passed
	}
	return false
}

// LearningOutcome reports how the previously shown hint fared once the new
// submission's score arrived.
type LearningOutcome struct {
	VariantID string  `json:"variant_id"`
	Improved  bool    `json:"improved"`
	Delta     float64 `json:"delta"`
}

// HintResponse is the hint the engine chose for this submission.
type HintResponse struct {
	Enabled    bool             `json:"enabled"`
	SessionID  string           `json:"session_id"`
	Category   string           `json:"category,omitempty"`
	Level      int              `json:"level,omitempty"`
	VariantID  string           `json:"variant_id,omitempty"`
	HintText   string           `json:"hint_text"`
	Confidence float64          `json:"confidence"`
	Learning   *LearningOutcome `json:"learning,omitempty"`
}
