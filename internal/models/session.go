package models

import "time"

// Session tracks one learner-submission thread across hint requests.
type Session struct {
	ID            string       `gorm:"primaryKey;size:128" json:"id"`
	Level         int          `gorm:"not null;default:1" json:"level"`
	LastCategory  string       `gorm:"size:32" json:"last_category"`
	LastVariantID string       `gorm:"size:64" json:"last_variant_id"`
	LastScore     *float64     `json:"last_score"`
	LastFullScore bool         `gorm:"not null;default:false" json:"last_full_score"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Submissions   []Submission `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// HasOutcomeBaseline reports whether the session carries enough history to
// score the previously shown hint against a new submission.
func (s Session) HasOutcomeBaseline() bool {
	return s.LastVariantID != "" && s.LastScore != nil
}

// FullScore reports whether the last attempt already solved the problem.
// The flag is set only from scores with a known scale (a max_score ratio or
// an explicit pass); a raw score carries no notion of "full".
func (s Session) FullScore() bool {
	return s.LastFullScore
}
