package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is one code+feedback payload handled for a session. Rows are
// append-only: they form the session's attempt log and are never updated.
type Submission struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	SessionID  string            `gorm:"size:128;not null;index" json:"session_id"`
	Source     string            `gorm:"type:text" json:"source"`
	SourceHash string            `gorm:"size:64" json:"source_hash"`
	Feedback   string            `gorm:"type:text" json:"feedback"`
	Features   datatypes.JSONMap `json:"features"`
	Category   string            `gorm:"size:32;not null" json:"category"`
	Confidence float64           `gorm:"not null" json:"confidence"`
	Level      int               `gorm:"not null" json:"level"`
	VariantID  string            `gorm:"size:64" json:"variant_id"`
	HintText   string            `gorm:"type:text" json:"hint_text"`
	Score      *float64          `json:"score"`
	CreatedAt  time.Time         `json:"created_at"`
}
