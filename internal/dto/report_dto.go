package dto

import "time"

// VariantRanking is one row of the operator "top variants" report.
type VariantRanking struct {
	Category  string  `json:"category"`
	Level     int     `json:"level"`
	VariantID string  `json:"variant_id"`
	Shown     int64   `json:"shown"`
	Improved  int64   `json:"improved"`
	Rate      float64 `json:"rate"`
}

// TopVariantsResponse wraps the ranking rows returned to operators.
type TopVariantsResponse struct {
	Items []VariantRanking `json:"items"`
}

// AttemptRecord is one row of a session's attempt log.
type AttemptRecord struct {
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	Level      int       `json:"level"`
	VariantID  string    `json:"variant_id"`
	Score      *float64  `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionHistoryResponse shows operators how one session moved through
// categories and disclosure levels.
type SessionHistoryResponse struct {
	SessionID string          `json:"session_id"`
	Level     int             `json:"level"`
	Attempts  []AttemptRecord `json:"attempts"`
}
