package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/hint-engine-api/internal/models"
)

// SessionRepository exposes persistence helpers for learner sessions.
type SessionRepository interface {
	Get(ctx context.Context, id string) (models.Session, error)
	Put(ctx context.Context, session *models.Session) error
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Get(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *sessionRepository) Put(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}
