package repository

import (
	"context"
	"time"

	"golang-finance-insight/internal/entity"

	"gorm.io/gorm"
)


// AnalysisRefreshRepository finds done analyses that are due for another run.
type AnalysisRefreshRepository interface {
	FindStale(ctx context.Context, finishedBefore time.Time, limit int) ([]entity.AnalysisRecord, error)
	// Claim marks a done analysis running. It reports false when the analysis is no longer done.
	Claim(ctx context.Context, id uint) (bool, error)
	// Release returns a claimed analysis to done so a later cycle picks it up again.
	Release(ctx context.Context, id uint) error
}

// NewAnalysisRefreshRepository creates a new GORM-based refresh repository.
func NewAnalysisRefreshRepository(db *gorm.DB) AnalysisRefreshRepository {
	return &analysisRefreshRepository{db: db}
}

type analysisRefreshRepository struct {
	db *gorm.DB
}

// FindStale returns the oldest done analyses first. Failed analyses wait for a manual trigger.
func (r *analysisRefreshRepository) FindStale(ctx context.Context, finishedBefore time.Time, limit int) ([]entity.AnalysisRecord, error) {
	var records []entity.AnalysisRecord
	q := r.db.WithContext(ctx).
		Where("status = ?", entity.AnalysisStatusDone).
		Where("(finished_at IS NULL OR finished_at < ?)", finishedBefore).
		Order("finished_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *analysisRefreshRepository) Claim(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.AnalysisRecord{}).
		Where("id = ? AND status = ?", id, entity.AnalysisStatusDone).
		Updates(map[string]interface{}{"status": entity.AnalysisStatusRunning, "ready": false})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *analysisRefreshRepository) Release(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.AnalysisRecord{}).
		Where("id = ? AND status = ?", id, entity.AnalysisStatusRunning).
		Updates(map[string]interface{}{"status": entity.AnalysisStatusDone, "ready": true}).Error
}
