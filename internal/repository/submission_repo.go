package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/hint-engine-api/internal/models"
)

// SubmissionRepository appends to and reads the per-session attempt log.
type SubmissionRepository interface {
	Append(ctx context.Context, submission *models.Submission) error
	ListForSession(ctx context.Context, sessionID string) ([]models.Submission, error)
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

type submissionRepository struct {
	db *gorm.DB
}

func (r *submissionRepository) Append(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) ListForSession(ctx context.Context, sessionID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&submissions).Error
	return submissions, err
}
