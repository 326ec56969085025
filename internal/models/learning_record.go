package models

import "time"

// LearningRecord aggregates hint effectiveness counters for one variant in a
// (category, level) bucket. Shared across all sessions; updated only through
// the repository's atomic increment so improved never exceeds shown.
type LearningRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"size:32;not null;uniqueIndex:idx_learning_key" json:"category"`
	Level     int       `gorm:"not null;uniqueIndex:idx_learning_key" json:"level"`
	VariantID string    `gorm:"size:64;not null;uniqueIndex:idx_learning_key" json:"variant_id"`
	Shown     int64     `gorm:"not null;default:0" json:"shown"`
	Improved  int64     `gorm:"not null;default:0" json:"improved"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImprovementRate returns improved/shown, guarding against division by zero.
// Unshown variants rate as zero so the selector treats them as unproven.
func (r LearningRecord) ImprovementRate() float64 {
	if r.Shown <= 0 {
		return 0
	}
	return float64(r.Improved) / float64(r.Shown)
}
