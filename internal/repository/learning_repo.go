package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/hint-engine-api/internal/models"
)

// LearningRepository owns the shared shown/improved counters. Increment is a
// single upsert statement so concurrent writers from different sessions can
// never produce a record where improved exceeds shown.
type LearningRepository interface {
	Get(ctx context.Context, category string, level int, variantID string) (models.LearningRecord, error)
	Increment(ctx context.Context, category string, level int, variantID string, improved bool) error
	ListBucket(ctx context.Context, category string, level int) ([]models.LearningRecord, error)
	ListAll(ctx context.Context) ([]models.LearningRecord, error)
}

// NewLearningRepository constructs a learning record repository.
func NewLearningRepository(db *gorm.DB) LearningRepository {
	return &learningRepository{db: db}
}

type learningRepository struct {
	db *gorm.DB
}

// Get returns the counters for one variant. An absent record is not an
// error: it reads as zero counters, per the store contract.
func (r *learningRepository) Get(ctx context.Context, category string, level int, variantID string) (models.LearningRecord, error) {
	var record models.LearningRecord
	err := r.db.WithContext(ctx).
		Where("category = ? AND level = ? AND variant_id = ?", category, level, variantID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.LearningRecord{Category: category, Level: level, VariantID: variantID}, nil
		}
		return models.LearningRecord{}, err
	}
	return record, nil
}

func (r *learningRepository) Increment(ctx context.Context, category string, level int, variantID string, improved bool) error {
	improvedInc := int64(0)
	if improved {
		improvedInc = 1
	}

	record := models.LearningRecord{
		Category:  category,
		Level:     level,
		VariantID: variantID,
		Shown:     1,
		Improved:  improvedInc,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "category"}, {Name: "level"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"shown":    gorm.Expr("shown + 1"),
			"improved": gorm.Expr("improved + ?", improvedInc),
		}),
	}).Create(&record).Error
}

func (r *learningRepository) ListBucket(ctx context.Context, category string, level int) ([]models.LearningRecord, error) {
	var records []models.LearningRecord
	err := r.db.WithContext(ctx).
		Where("category = ? AND level = ?", category, level).
		Order("variant_id ASC").
		Find(&records).Error
	return records, err
}

func (r *learningRepository) ListAll(ctx context.Context) ([]models.LearningRecord, error) {
	var records []models.LearningRecord
	err := r.db.WithContext(ctx).
		Order("category ASC, level ASC, variant_id ASC").
		Find(&records).Error
	return records, err
}
